package services

import (
	"context"
	"fmt"

	"innkeep/internal/logger"
	. "innkeep/internal/models"
	"innkeep/internal/policy"
	"innkeep/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StayTransitionService exposes the operator-triggered transitions:
//
//	booked ──check-in──► occupied ──check-out──► completed
//	  │
//	  └────────cancel───────────────────────────► cancelled
//
// force overrides the status precondition only; it never rewrites stay dates
// and it is not honored for cancel. Each operation runs in one transaction
// together with the affected room's recompute, so the stay write and the
// room write commit or roll back as a unit.
type StayTransitionService struct {
	stayRepo       repositories.StayRepository
	auditRepo      repositories.AuditLogRepository
	reconciliation *ReconciliationService
	tx             TxExecutor
	settings       policy.Settings
	clock          policy.Clock
	log            logger.Logger
}

func NewStayTransitionService(
	repos repositories.Repository,
	reconciliation *ReconciliationService,
	tx TxExecutor,
	settings policy.Settings,
	clock policy.Clock,
) *StayTransitionService {
	return &StayTransitionService{
		stayRepo:       repos.Stay,
		auditRepo:      repos.AuditLog,
		reconciliation: reconciliation,
		tx:             tx,
		settings:       settings,
		clock:          clock,
		log:            logger.New("stayTransitionService"),
	}
}

// CheckIn moves a booked stay to occupied.
func (s *StayTransitionService) CheckIn(
	ctx context.Context,
	stayID, adminID uuid.UUID,
	force bool,
) (*Stay, error) {
	log := s.log.Function("CheckIn")

	stay, err := s.transition(
		ctx, stayID, adminID, StayStatusBooked, StayStatusOccupied, AuditActionCheckIn, force,
	)
	if err != nil {
		return nil, err
	}

	log.Info("stay checked in", "stayID", stayID, "forced", force)
	return stay, nil
}

// CheckOut moves an occupied stay to completed.
func (s *StayTransitionService) CheckOut(
	ctx context.Context,
	stayID, adminID uuid.UUID,
	force bool,
) (*Stay, error) {
	log := s.log.Function("CheckOut")

	stay, err := s.transition(
		ctx, stayID, adminID, StayStatusOccupied, StayStatusCompleted, AuditActionCheckOut, force,
	)
	if err != nil {
		return nil, err
	}

	log.Info("stay checked out", "stayID", stayID, "forced", force)
	return stay, nil
}

// Cancel moves a booked stay to cancelled. Cancelling an in-progress
// occupancy is not permitted, forced or not.
func (s *StayTransitionService) Cancel(
	ctx context.Context,
	stayID, adminID uuid.UUID,
) (*Stay, error) {
	log := s.log.Function("Cancel")

	stay, err := s.transition(
		ctx, stayID, adminID, StayStatusBooked, StayStatusCancelled, AuditActionCancel, false,
	)
	if err != nil {
		return nil, err
	}

	log.Info("stay cancelled", "stayID", stayID)
	return stay, nil
}

func (s *StayTransitionService) transition(
	ctx context.Context,
	stayID, adminID uuid.UUID,
	required, target StayStatus,
	action AuditAction,
	force bool,
) (*Stay, error) {
	now := s.clock.Now().Add(s.settings.Tolerance)
	today := s.settings.Today(now)

	var result *Stay
	var change *RoomStatusChange
	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		stay, err := s.stayRepo.GetByIDForOwner(ctx, tx, stayID, adminID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrStayNotFound
			}
			return err
		}

		if stay.Status != required && !force {
			return fmt.Errorf("%w: %s requires a %s stay, current status is %s",
				ErrInvalidTransition, target, required, stay.Status)
		}

		from := string(stay.Status)
		if _, err := s.stayRepo.UpdateStatus(ctx, tx, stay.ID, target); err != nil {
			return err
		}
		stay.Status = target

		change, err = s.reconciliation.ReconcileRoomTx(ctx, tx, stay.RoomID, now, today)
		if err != nil {
			return err
		}

		to := string(target)
		entry := &AuditLog{
			AdminID:    adminID,
			Action:     action,
			EntityType: "stay",
			EntityID:   stay.ID,
			FromStatus: &from,
			ToStatus:   &to,
			Forced:     force,
		}
		if err := s.auditRepo.Create(ctx, tx, entry); err != nil {
			return err
		}

		result = stay
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.reconciliation.publishChange(ctx, change)
	return result, nil
}
