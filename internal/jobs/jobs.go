package jobs

import (
	"innkeep/internal/logger"
	"innkeep/internal/services"
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	svcs services.Service,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")
	log.Info("Registering jobs")

	reconciliationJob := NewReconciliationJob(svcs.Reconciliation, services.EveryMinute)
	if err := schedulerService.AddJob(reconciliationJob); err != nil {
		return log.Err("failed to register reconciliation job", err)
	}

	overdueJob := NewOverdueJob(svcs.Overdue, services.Hourly)
	if err := schedulerService.AddJob(overdueJob); err != nil {
		return log.Err("failed to register overdue detection job", err)
	}

	return nil
}
