package services

import (
	"context"
	"time"

	"innkeep/internal/database"
	"innkeep/internal/logger"
	. "innkeep/internal/models"
	"innkeep/internal/policy"
	"innkeep/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomStatusPublisher receives room status transitions the engine persisted.
// Publishing is best-effort and never fails the reconciliation.
type RoomStatusPublisher interface {
	PublishRoomStatusChanged(ctx context.Context, roomID uuid.UUID, from, to RoomStatus)
}

// RoomStatusChange is a room transition recorded during a unit of work.
// Callers publish it only after the transaction commits, so a rollback never
// puts a phantom event on the bus.
type RoomStatusChange struct {
	RoomID uuid.UUID
	From   RoomStatus
	To     RoomStatus
}

// ReconciliationService keeps persisted Room and Stay status consistent with
// wall-clock time and policy-hour windows. Tick is the scheduled sweep;
// ReconcileRoom is the same recompute scoped to one room, used after manual
// transitions.
//
// Every room is its own transaction and its own locked unit of work, so one
// failing room aborts only itself and concurrent manual operations serialize
// on the room row. All status writes are conditional at the repository port,
// which makes re-running a tick a no-op once state is consistent.
type ReconciliationService struct {
	db        database.DB
	roomRepo  repositories.RoomRepository
	stayRepo  repositories.StayRepository
	tx        TxExecutor
	publisher RoomStatusPublisher
	settings  policy.Settings
	clock     policy.Clock
	log       logger.Logger
}

func NewReconciliationService(
	db database.DB,
	repos repositories.Repository,
	tx TxExecutor,
	publisher RoomStatusPublisher,
	settings policy.Settings,
	clock policy.Clock,
) *ReconciliationService {
	return &ReconciliationService{
		db:        db,
		roomRepo:  repos.Room,
		stayRepo:  repos.Stay,
		tx:        tx,
		publisher: publisher,
		settings:  settings,
		clock:     clock,
		log:       logger.New("reconciliationService"),
	}
}

// Tick runs one reconciliation sweep over every room. Room failures are
// logged and skipped; the next tick retries from then-current state, and
// conditional writes mean no progress is lost in between.
func (s *ReconciliationService) Tick(ctx context.Context) error {
	log := s.log.Function("Tick")

	// Tolerance shifts the evaluation instant forward so a tick firing
	// just before a policy hour still picks the transition up instead of
	// waiting a full interval.
	now := s.clock.Now().Add(s.settings.Tolerance)
	today := s.settings.Today(now)

	rooms, err := s.roomRepo.GetRoomsForReconciliation(ctx, s.db.SQL, nil)
	if err != nil {
		return log.Err("failed to load rooms for reconciliation", err)
	}

	failed := 0
	for _, room := range rooms {
		if err := s.reconcileRoomUnit(ctx, room.ID, now, today); err != nil {
			log.Er("room reconciliation failed, continuing sweep", err, "roomID", room.ID)
			failed++
		}
	}

	if failed > 0 {
		return log.Error("reconciliation sweep finished with failures",
			"failed", failed, "total", len(rooms))
	}

	return nil
}

// ReconcileRoom recomputes one room's status (and its candidate stays) in
// its own transaction. Manual transitions call this for the affected room.
func (s *ReconciliationService) ReconcileRoom(ctx context.Context, roomID uuid.UUID) error {
	now := s.clock.Now().Add(s.settings.Tolerance)
	today := s.settings.Today(now)
	return s.reconcileRoomUnit(ctx, roomID, now, today)
}

func (s *ReconciliationService) reconcileRoomUnit(
	ctx context.Context,
	roomID uuid.UUID,
	now, today time.Time,
) error {
	var change *RoomStatusChange
	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var txErr error
		change, txErr = s.ReconcileRoomTx(ctx, tx, roomID, now, today)
		return txErr
	})
	if err != nil {
		return err
	}

	s.publishChange(ctx, change)
	return nil
}

// ReconcileRoomTx runs the room recompute inside an existing transaction.
// The stay transition service uses this so its status write and the room
// recompute commit or roll back together. The returned change, if any, must
// be handed to publishChange only after the transaction commits.
func (s *ReconciliationService) ReconcileRoomTx(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
	now, today time.Time,
) (*RoomStatusChange, error) {
	room, err := s.roomRepo.GetByIDForUpdate(ctx, tx, roomID)
	if err != nil {
		return nil, err
	}

	stays, err := s.stayRepo.GetCandidateStays(ctx, tx, roomID, today)
	if err != nil {
		return nil, err
	}

	hours := s.settings.ResolveHours(room)

	// Advance each candidate stay through its own window first: booked
	// stays whose window has opened become occupied, occupied stays whose
	// window has closed become completed.
	for _, stay := range stays {
		target := s.targetStayStatus(stay, hours, now, today)
		if target == stay.Status {
			continue
		}
		if _, err := s.stayRepo.UpdateStatus(ctx, tx, stay.ID, target); err != nil {
			return nil, err
		}
		stay.Status = target
	}

	// Then derive the room status from scratch off the advanced stays.
	target := s.targetRoomStatus(stays, hours, now, today)
	changed, err := s.roomRepo.UpdateStatus(ctx, tx, roomID, target)
	if err != nil {
		return nil, err
	}

	if !changed {
		return nil, nil
	}
	return &RoomStatusChange{RoomID: roomID, From: room.Status, To: target}, nil
}

// publishChange broadcasts a committed room transition. Nil-safe on both the
// publisher and the change.
func (s *ReconciliationService) publishChange(ctx context.Context, change *RoomStatusChange) {
	if change == nil || s.publisher == nil {
		return
	}
	s.publisher.PublishRoomStatusChanged(ctx, change.RoomID, change.From, change.To)
}

// targetStayStatus computes where one stay should be right now. Terminal
// stays are never revisited.
func (s *ReconciliationService) targetStayStatus(
	stay *Stay,
	hours policy.HourPolicy,
	now, today time.Time,
) StayStatus {
	if stay.IsTerminal() {
		return stay.Status
	}

	window := s.settings.WindowFor(stay, hours)

	switch stay.Status {
	case StayStatusBooked:
		if policy.CoversDate(stay, today) && window.Covers(now) {
			return StayStatusOccupied
		}
	case StayStatusOccupied:
		if !stay.CheckOut.After(today) && !now.Before(window.CheckOut) {
			return StayStatusCompleted
		}
	}

	return stay.Status
}

// targetRoomStatus derives the room's status from its candidate stays:
// occupied when a stay holds the room right now, booked when only a future
// booking exists, free otherwise.
//
// An occupied stay counts as holding the room until its checkout instant
// even when its check-in instant has not arrived (a forced early check-in);
// a booked stay counts only inside its full window. Two stays claiming the
// room simultaneously is a data integrity violation prevented at booking
// creation; the engine does not arbitrate between them here.
func (s *ReconciliationService) targetRoomStatus(
	stays []*Stay,
	hours policy.HourPolicy,
	now, today time.Time,
) RoomStatus {
	hasFutureBooking := false

	for _, stay := range stays {
		if !stay.IsActive() {
			continue
		}

		if policy.IsFuture(stay, today) {
			hasFutureBooking = true
			continue
		}

		if !policy.CoversDate(stay, today) {
			continue
		}

		window := s.settings.WindowFor(stay, hours)
		switch stay.Status {
		case StayStatusOccupied:
			if now.Before(window.CheckOut) {
				return RoomStatusOccupied
			}
		case StayStatusBooked:
			if window.Covers(now) {
				return RoomStatusOccupied
			}
		}
	}

	if hasFutureBooking {
		return RoomStatusBooked
	}
	return RoomStatusFree
}
