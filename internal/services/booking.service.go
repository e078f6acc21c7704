package services

import (
	"context"

	"innkeep/internal/database"
	"innkeep/internal/logger"
	. "innkeep/internal/models"
	"innkeep/internal/policy"
	"innkeep/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingService covers the small create surface the engine needs upstream:
// rooms seeded free, stays created booked after the overlap check. The
// overlap check at creation time is what lets the engine assume at most one
// stay claims a room at any instant.
type BookingService struct {
	db             database.DB
	roomRepo       repositories.RoomRepository
	stayRepo       repositories.StayRepository
	reconciliation *ReconciliationService
	tx             TxExecutor
	settings       policy.Settings
	clock          policy.Clock
	log            logger.Logger
}

func NewBookingService(
	db database.DB,
	repos repositories.Repository,
	reconciliation *ReconciliationService,
	tx TxExecutor,
	settings policy.Settings,
	clock policy.Clock,
) *BookingService {
	return &BookingService{
		db:             db,
		roomRepo:       repos.Room,
		stayRepo:       repos.Stay,
		reconciliation: reconciliation,
		tx:             tx,
		settings:       settings,
		clock:          clock,
		log:            logger.New("bookingService"),
	}
}

func (s *BookingService) CreateRoom(ctx context.Context, room *Room) (*Room, error) {
	log := s.log.Function("CreateRoom")

	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return s.roomRepo.Create(ctx, tx, room)
	})
	if err != nil {
		return nil, err
	}

	log.Info("room created", "roomID", room.ID, "name", room.Name)
	return room, nil
}

// CreateStay books a room for a date range. Dates are date-only values; the
// overlap check and the create share one transaction so two concurrent
// bookings cannot both pass the check.
func (s *BookingService) CreateStay(
	ctx context.Context,
	adminID uuid.UUID,
	stay *Stay,
) (*Stay, error) {
	log := s.log.Function("CreateStay")

	if !stay.CheckIn.Before(stay.CheckOut) {
		return nil, log.ErrMsg("check-in date must be before check-out date")
	}

	now := s.clock.Now().Add(s.settings.Tolerance)
	today := s.settings.Today(now)

	var change *RoomStatusChange
	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		room, err := s.roomRepo.GetByIDForUpdate(ctx, tx, stay.RoomID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrRoomNotFound
			}
			return err
		}
		if room.AdminID != adminID {
			return ErrRoomNotFound
		}

		overlaps, err := s.stayRepo.HasOverlap(ctx, tx, stay.RoomID, stay.CheckIn, stay.CheckOut)
		if err != nil {
			return err
		}
		if overlaps {
			return ErrStayOverlap
		}

		stay.Status = StayStatusBooked
		if err := s.stayRepo.Create(ctx, tx, stay); err != nil {
			return err
		}

		// Bring the room projection up to date immediately rather than
		// waiting for the next tick.
		change, err = s.reconciliation.ReconcileRoomTx(ctx, tx, stay.RoomID, now, today)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.reconciliation.publishChange(ctx, change)

	log.Info("stay created", "stayID", stay.ID, "roomID", stay.RoomID)
	return stay, nil
}
