package services

import (
	"innkeep/config"
	"innkeep/internal/database"
	"innkeep/internal/policy"
	"innkeep/internal/repositories"
)

type Service struct {
	Transaction    *TransactionService
	Scheduler      *SchedulerService
	Reconciliation *ReconciliationService
	StayTransition *StayTransitionService
	Booking        *BookingService
	Overdue        *OverdueService
	Auth           *AuthService
	GuestAccess    *GuestAccessService
}

func New(
	db database.DB,
	config config.Config,
	repos repositories.Repository,
	publisher RoomStatusPublisher,
) (Service, error) {
	settings, err := policy.NewSettings(config)
	if err != nil {
		return Service{}, err
	}
	clock := policy.NewClock()

	transactionService := NewTransactionService(db)
	schedulerService := NewSchedulerService()
	reconciliationService := NewReconciliationService(
		db, repos, transactionService, publisher, settings, clock,
	)
	stayTransitionService := NewStayTransitionService(
		repos, reconciliationService, transactionService, settings, clock,
	)
	bookingService := NewBookingService(
		db, repos, reconciliationService, transactionService, settings, clock,
	)
	overdueService := NewOverdueService(db, repos, transactionService, settings, clock)
	authService := NewAuthService(db, repos, config)
	guestAccessService := NewGuestAccessService(db, repos, transactionService, clock, config)

	return Service{
		Transaction:    transactionService,
		Scheduler:      schedulerService,
		Reconciliation: reconciliationService,
		StayTransition: stayTransitionService,
		Booking:        bookingService,
		Overdue:        overdueService,
		Auth:           authService,
		GuestAccess:    guestAccessService,
	}, nil
}
