package repositories

import (
	"context"
	"time"

	"innkeep/internal/database"
	"innkeep/internal/logger"
	. "innkeep/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	RoomBoardCachePrefix = "room_board"
	RoomBoardCacheExpiry = 30 * time.Second
)

type RoomRepository interface {
	GetRoomsForReconciliation(ctx context.Context, tx *gorm.DB, adminID *uuid.UUID) ([]*Room, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error)
	GetBoardForOwner(ctx context.Context, tx *gorm.DB, adminID uuid.UUID) ([]*Room, error)
	Create(ctx context.Context, tx *gorm.DB, room *Room) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, roomID uuid.UUID, status RoomStatus) (bool, error)
	ClearBoardCache(ctx context.Context, adminID uuid.UUID) error
}

type roomRepository struct {
	cache database.CacheClient
}

func NewRoomRepository(db database.DB) RoomRepository {
	return &roomRepository{
		cache: db.Cache.General,
	}
}

// GetRoomsForReconciliation returns the rooms one tick must consider, with
// the owning admin preloaded so policy hours resolve without extra reads.
// A nil adminID means all tenants.
func (r *roomRepository) GetRoomsForReconciliation(
	ctx context.Context,
	tx *gorm.DB,
	adminID *uuid.UUID,
) ([]*Room, error) {
	log := logger.NewWithContext(ctx, "roomRepository").Function("GetRoomsForReconciliation")

	var rooms []*Room
	query := tx.WithContext(ctx).Preload("Admin")
	if adminID != nil {
		query = query.Where("admin_id = ?", adminID)
	}

	if err := query.Order("created_at ASC").Find(&rooms).Error; err != nil {
		return nil, log.Err("failed to get rooms for reconciliation", err)
	}

	return rooms, nil
}

func (r *roomRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error) {
	log := logger.NewWithContext(ctx, "roomRepository").Function("GetByID")

	var room Room
	if err := tx.WithContext(ctx).Preload("Admin").First(&room, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get room", err, "roomID", id)
	}
	return &room, nil
}

// GetByIDForUpdate locks the room row for the duration of the surrounding
// transaction so a manual transition and a concurrent tick cannot interleave
// destructively on the same room.
func (r *roomRepository) GetByIDForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Room, error) {
	log := logger.NewWithContext(ctx, "roomRepository").Function("GetByIDForUpdate")

	var room Room
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Admin").
		First(&room, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to lock room", err, "roomID", id)
	}
	return &room, nil
}

func (r *roomRepository) GetBoardForOwner(
	ctx context.Context,
	tx *gorm.DB,
	adminID uuid.UUID,
) ([]*Room, error) {
	log := logger.NewWithContext(ctx, "roomRepository").Function("GetBoardForOwner")

	cacheKey := RoomBoardCachePrefix + ":" + adminID.String()
	var cached []*Room
	found, err := database.CacheGetJSON(ctx, r.cache, cacheKey, &cached)
	if err != nil {
		log.Warn("failed to get room board from cache", "adminID", adminID, "error", err)
	}
	if found {
		return cached, nil
	}

	var rooms []*Room
	if err := tx.WithContext(ctx).
		Where("admin_id = ?", adminID).
		Preload("Stays", "status IN ?", []StayStatus{StayStatusBooked, StayStatusOccupied}).
		Order("floor ASC, name ASC").
		Find(&rooms).Error; err != nil {
		return nil, log.Err("failed to get room board", err, "adminID", adminID)
	}

	if err := database.CacheSetJSON(ctx, r.cache, cacheKey, rooms, RoomBoardCacheExpiry); err != nil {
		log.Warn("failed to cache room board", "adminID", adminID, "error", err)
	}

	return rooms, nil
}

func (r *roomRepository) Create(ctx context.Context, tx *gorm.DB, room *Room) error {
	log := logger.NewWithContext(ctx, "roomRepository").Function("Create")

	room.Status = RoomStatusFree
	if err := tx.WithContext(ctx).Create(room).Error; err != nil {
		return log.Err("failed to create room", err)
	}
	return nil
}

// UpdateStatus writes the room status only when it differs from the stored
// value and reports whether a write happened. The conditional lives here at
// the port so the engine stays a pure computation of target state.
func (r *roomRepository) UpdateStatus(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
	status RoomStatus,
) (bool, error) {
	log := logger.NewWithContext(ctx, "roomRepository").Function("UpdateStatus")

	result := tx.WithContext(ctx).
		Model(&Room{}).
		Where("id = ? AND status <> ?", roomID, status).
		Update("status", status)
	if result.Error != nil {
		return false, log.Err("failed to update room status", result.Error, "roomID", roomID, "status", status)
	}

	return result.RowsAffected > 0, nil
}

func (r *roomRepository) ClearBoardCache(ctx context.Context, adminID uuid.UUID) error {
	return database.CacheDelete(ctx, r.cache, RoomBoardCachePrefix+":"+adminID.String())
}
