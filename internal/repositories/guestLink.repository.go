package repositories

import (
	"context"
	"time"

	"innkeep/internal/database"
	"innkeep/internal/logger"
	. "innkeep/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GuestLinkCachePrefix = "guest_link"
	GuestLinkCacheExpiry = 10 * time.Minute
)

type GuestLinkRepository interface {
	Create(ctx context.Context, tx *gorm.DB, link *GuestLink) error
	GetByTokenID(ctx context.Context, tx *gorm.DB, tokenID string) (*GuestLink, error)
	Revoke(ctx context.Context, tx *gorm.DB, linkID uuid.UUID) error
}

type guestLinkRepository struct {
	cache database.CacheClient
}

func NewGuestLinkRepository(db database.DB) GuestLinkRepository {
	return &guestLinkRepository{
		cache: db.Cache.Guest,
	}
}

func (r *guestLinkRepository) Create(ctx context.Context, tx *gorm.DB, link *GuestLink) error {
	log := logger.NewWithContext(ctx, "guestLinkRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(link).Error; err != nil {
		return log.Err("failed to create guest link", err)
	}
	return nil
}

func (r *guestLinkRepository) GetByTokenID(
	ctx context.Context,
	tx *gorm.DB,
	tokenID string,
) (*GuestLink, error) {
	log := logger.NewWithContext(ctx, "guestLinkRepository").Function("GetByTokenID")

	cacheKey := GuestLinkCachePrefix + ":" + tokenID
	var cached GuestLink
	found, err := database.CacheGetJSON(ctx, r.cache, cacheKey, &cached)
	if err != nil {
		log.Warn("failed to get guest link from cache", "error", err)
	}
	if found {
		return &cached, nil
	}

	var link GuestLink
	if err := tx.WithContext(ctx).
		Preload("Stay.Room").
		First(&link, "token_id = ?", tokenID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get guest link", err)
	}

	if err := database.CacheSetJSON(ctx, r.cache, cacheKey, link, GuestLinkCacheExpiry); err != nil {
		log.Warn("failed to cache guest link", "error", err)
	}

	return &link, nil
}

func (r *guestLinkRepository) Revoke(ctx context.Context, tx *gorm.DB, linkID uuid.UUID) error {
	log := logger.NewWithContext(ctx, "guestLinkRepository").Function("Revoke")

	var link GuestLink
	if err := tx.WithContext(ctx).First(&link, "id = ?", linkID).Error; err != nil {
		return log.Err("failed to find guest link", err, "linkID", linkID)
	}

	if err := tx.WithContext(ctx).
		Model(&link).
		Update("revoked", true).Error; err != nil {
		return log.Err("failed to revoke guest link", err, "linkID", linkID)
	}

	if err := database.CacheDelete(ctx, r.cache, GuestLinkCachePrefix+":"+link.TokenID); err != nil {
		log.Warn("failed to evict revoked guest link from cache", "error", err)
	}

	return nil
}
