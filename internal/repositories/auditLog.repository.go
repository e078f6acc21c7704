package repositories

import (
	"context"

	"innkeep/internal/logger"
	. "innkeep/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *AuditLog) error
	ListForEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, limit int) ([]*AuditLog, error)
}

type auditLogRepository struct{}

func NewAuditLogRepository() AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(ctx context.Context, tx *gorm.DB, entry *AuditLog) error {
	log := logger.NewWithContext(ctx, "auditLogRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return log.Err("failed to create audit log entry", err)
	}
	return nil
}

func (r *auditLogRepository) ListForEntity(
	ctx context.Context,
	tx *gorm.DB,
	entityType string,
	entityID uuid.UUID,
	limit int,
) ([]*AuditLog, error) {
	log := logger.NewWithContext(ctx, "auditLogRepository").Function("ListForEntity")

	if limit <= 0 {
		limit = 50
	}

	var entries []*AuditLog
	if err := tx.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, log.Err("failed to list audit log entries", err, "entityID", entityID)
	}

	return entries, nil
}
