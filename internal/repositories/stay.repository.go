package repositories

import (
	"context"
	"time"

	"innkeep/internal/logger"
	. "innkeep/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StayRepository interface {
	// GetCandidateStays returns the stays a room reconciliation must look
	// at: active stays whose date range covers today, future booked stays,
	// and occupied stays whose checkout date has already passed (left over
	// when no tick ran across midnight). Rows are locked for the
	// surrounding transaction.
	GetCandidateStays(ctx context.Context, tx *gorm.DB, roomID uuid.UUID, today time.Time) ([]*Stay, error)
	GetByIDForOwner(ctx context.Context, tx *gorm.DB, stayID, adminID uuid.UUID) (*Stay, error)
	GetActiveForSweep(ctx context.Context, tx *gorm.DB) ([]*Stay, error)
	HasOverlap(ctx context.Context, tx *gorm.DB, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, stay *Stay) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, stayID uuid.UUID, status StayStatus) (bool, error)
	SetNeedsAction(ctx context.Context, tx *gorm.DB, stayID uuid.UUID, reason *string) (bool, error)
}

type stayRepository struct{}

func NewStayRepository() StayRepository {
	return &stayRepository{}
}

func (r *stayRepository) GetCandidateStays(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
	today time.Time,
) ([]*Stay, error) {
	log := logger.NewWithContext(ctx, "stayRepository").Function("GetCandidateStays")

	var stays []*Stay
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("room_id = ?", roomID).
		Where(
			tx.Where("status IN ? AND check_in <= ? AND check_out >= ?",
				[]StayStatus{StayStatusBooked, StayStatusOccupied}, today, today).
				Or("status = ? AND check_in > ?", StayStatusBooked, today).
				// Occupied past its checkout date: still needs completing.
				Or("status = ? AND check_out < ?", StayStatusOccupied, today),
		).
		Order("check_in ASC").
		Find(&stays).Error; err != nil {
		return nil, log.Err("failed to get candidate stays", err, "roomID", roomID)
	}

	return stays, nil
}

// GetByIDForOwner resolves a stay only when its room belongs to the given
// admin; a stay outside the caller's scope reads as not found.
func (r *stayRepository) GetByIDForOwner(
	ctx context.Context,
	tx *gorm.DB,
	stayID, adminID uuid.UUID,
) (*Stay, error) {
	log := logger.NewWithContext(ctx, "stayRepository").Function("GetByIDForOwner")

	var stay Stay
	if err := tx.WithContext(ctx).
		Joins("JOIN rooms ON rooms.id = stays.room_id").
		Where("stays.id = ? AND rooms.admin_id = ?", stayID, adminID).
		Preload("Room.Admin").
		First(&stay).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get stay for owner", err, "stayID", stayID)
	}
	return &stay, nil
}

// GetActiveForSweep feeds the overdue detection job: every active stay with
// its room and admin preloaded for policy resolution.
func (r *stayRepository) GetActiveForSweep(ctx context.Context, tx *gorm.DB) ([]*Stay, error) {
	log := logger.NewWithContext(ctx, "stayRepository").Function("GetActiveForSweep")

	var stays []*Stay
	if err := tx.WithContext(ctx).
		Where("status IN ?", []StayStatus{StayStatusBooked, StayStatusOccupied}).
		Preload("Room.Admin").
		Find(&stays).Error; err != nil {
		return nil, log.Err("failed to get active stays", err)
	}
	return stays, nil
}

// HasOverlap reports whether another active stay already claims any date of
// the given range. Ranges touch-but-not-overlap when one checks out the day
// the other checks in, so the comparison is strict.
func (r *stayRepository) HasOverlap(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
	checkIn, checkOut time.Time,
) (bool, error) {
	log := logger.NewWithContext(ctx, "stayRepository").Function("HasOverlap")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&Stay{}).
		Where("room_id = ? AND status IN ?", roomID, []StayStatus{StayStatusBooked, StayStatusOccupied}).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Count(&count).Error; err != nil {
		return false, log.Err("failed to check stay overlap", err, "roomID", roomID)
	}

	return count > 0, nil
}

func (r *stayRepository) Create(ctx context.Context, tx *gorm.DB, stay *Stay) error {
	log := logger.NewWithContext(ctx, "stayRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(stay).Error; err != nil {
		return log.Err("failed to create stay", err)
	}
	return nil
}

// UpdateStatus is a conditional write: it no-ops when the stored status
// already matches and reports whether a row changed.
func (r *stayRepository) UpdateStatus(
	ctx context.Context,
	tx *gorm.DB,
	stayID uuid.UUID,
	status StayStatus,
) (bool, error) {
	log := logger.NewWithContext(ctx, "stayRepository").Function("UpdateStatus")

	result := tx.WithContext(ctx).
		Model(&Stay{}).
		Where("id = ? AND status <> ?", stayID, status).
		Update("status", status)
	if result.Error != nil {
		return false, log.Err("failed to update stay status", result.Error, "stayID", stayID, "status", status)
	}

	return result.RowsAffected > 0, nil
}

// SetNeedsAction flags or clears the stay's needs-action marker. A nil
// reason clears it.
func (r *stayRepository) SetNeedsAction(
	ctx context.Context,
	tx *gorm.DB,
	stayID uuid.UUID,
	reason *string,
) (bool, error) {
	log := logger.NewWithContext(ctx, "stayRepository").Function("SetNeedsAction")

	needs := reason != nil
	result := tx.WithContext(ctx).
		Model(&Stay{}).
		Where("id = ? AND needs_action <> ?", stayID, needs).
		Updates(map[string]any{
			"needs_action":        needs,
			"needs_action_reason": reason,
		})
	if result.Error != nil {
		return false, log.Err("failed to set needs action", result.Error, "stayID", stayID)
	}

	return result.RowsAffected > 0, nil
}
