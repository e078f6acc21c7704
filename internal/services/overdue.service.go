package services

import (
	"context"
	"time"

	"innkeep/internal/database"
	"innkeep/internal/logger"
	. "innkeep/internal/models"
	"innkeep/internal/policy"
	"innkeep/internal/repositories"

	"gorm.io/gorm"
)

// overdueGrace is how far past its policy instant a stay may sit before the
// front desk gets flagged.
const overdueGrace = 2 * time.Hour

// OverdueService owns the needsAction flag on stays: it marks bookings whose
// check-in window opened long ago without anyone arriving, and occupancies
// lingering past checkout. The reconciliation engine never touches the flag.
type OverdueService struct {
	db       database.DB
	stayRepo repositories.StayRepository
	tx       TxExecutor
	settings policy.Settings
	clock    policy.Clock
	log      logger.Logger
}

func NewOverdueService(
	db database.DB,
	repos repositories.Repository,
	tx TxExecutor,
	settings policy.Settings,
	clock policy.Clock,
) *OverdueService {
	return &OverdueService{
		db:       db,
		stayRepo: repos.Stay,
		tx:       tx,
		settings: settings,
		clock:    clock,
		log:      logger.New("overdueService"),
	}
}

// Sweep flags newly overdue stays and clears flags that no longer apply.
func (s *OverdueService) Sweep(ctx context.Context) error {
	log := s.log.Function("Sweep")

	now := s.clock.Now()
	today := s.settings.Today(now)

	stays, err := s.stayRepo.GetActiveForSweep(ctx, s.db.SQL)
	if err != nil {
		return log.Err("failed to load active stays", err)
	}

	flagged, cleared := 0, 0
	err = s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		for _, stay := range stays {
			reason := s.overdueReason(stay, now, today)

			switch {
			case reason != nil && !stay.NeedsAction:
				if _, err := s.stayRepo.SetNeedsAction(ctx, tx, stay.ID, reason); err != nil {
					return err
				}
				flagged++
			case reason == nil && stay.NeedsAction:
				if _, err := s.stayRepo.SetNeedsAction(ctx, tx, stay.ID, nil); err != nil {
					return err
				}
				cleared++
			}
		}
		return nil
	})
	if err != nil {
		return log.Err("overdue sweep failed", err)
	}

	if flagged > 0 || cleared > 0 {
		log.Info("overdue sweep finished", "flagged", flagged, "cleared", cleared)
	}
	return nil
}

func (s *OverdueService) overdueReason(stay *Stay, now, today time.Time) *string {
	hours := s.settings.ResolveHours(&stay.Room)
	window := s.settings.WindowFor(stay, hours)

	switch stay.Status {
	case StayStatusBooked:
		// Still booked long after the check-in window opened, and the
		// booking has not quietly slid into the future.
		if !policy.IsFuture(stay, today) && now.After(window.CheckIn.Add(overdueGrace)) {
			reason := NeedsActionOverdueCheckIn
			return &reason
		}
	case StayStatusOccupied:
		if now.After(window.CheckOut.Add(overdueGrace)) {
			reason := NeedsActionOverdueCheckOut
			return &reason
		}
	}

	return nil
}
