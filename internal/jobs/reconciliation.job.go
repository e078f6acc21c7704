package jobs

import (
	"context"
	"sync/atomic"

	"innkeep/internal/logger"
	"innkeep/internal/services"
)

// ReconciliationJob drives the minutely status reconciliation tick. A tick
// still running when the next trigger fires is skipped, not queued: writes
// are conditional so nothing is lost, and concurrent full sweeps are waste.
type ReconciliationJob struct {
	reconciliation *services.ReconciliationService
	running        atomic.Bool
	log            logger.Logger
	schedule       services.Schedule
}

func NewReconciliationJob(
	reconciliation *services.ReconciliationService,
	schedule services.Schedule,
) *ReconciliationJob {
	return &ReconciliationJob{
		reconciliation: reconciliation,
		log:            logger.New("reconciliationJob"),
		schedule:       schedule,
	}
}

func (j *ReconciliationJob) Name() string {
	return "StatusReconciliationTick"
}

func (j *ReconciliationJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	if !j.running.CompareAndSwap(false, true) {
		log.Warn("previous tick still running, skipping trigger")
		return nil
	}
	defer j.running.Store(false)

	if err := j.reconciliation.Tick(ctx); err != nil {
		return log.Err("reconciliation tick failed", err)
	}

	return nil
}

func (j *ReconciliationJob) Schedule() services.Schedule {
	return j.schedule
}
