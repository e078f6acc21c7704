package jobs

import (
	"context"

	"innkeep/internal/logger"
	"innkeep/internal/services"
)

type OverdueJob struct {
	overdue  *services.OverdueService
	log      logger.Logger
	schedule services.Schedule
}

func NewOverdueJob(overdue *services.OverdueService, schedule services.Schedule) *OverdueJob {
	return &OverdueJob{
		overdue:  overdue,
		log:      logger.New("overdueJob"),
		schedule: schedule,
	}
}

func (j *OverdueJob) Name() string {
	return "OverdueStayDetection"
}

func (j *OverdueJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	if err := j.overdue.Sweep(ctx); err != nil {
		return log.Err("overdue sweep failed", err)
	}

	return nil
}

func (j *OverdueJob) Schedule() services.Schedule {
	return j.schedule
}
