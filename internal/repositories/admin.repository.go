package repositories

import (
	"context"

	"innkeep/internal/logger"
	. "innkeep/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Admin, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*Admin, error)
	Create(ctx context.Context, tx *gorm.DB, admin *Admin) error
}

type adminRepository struct{}

func NewAdminRepository() AdminRepository {
	return &adminRepository{}
}

func (r *adminRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Admin, error) {
	log := logger.NewWithContext(ctx, "adminRepository").Function("GetByID")

	var admin Admin
	if err := tx.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get admin", err, "adminID", id)
	}
	return &admin, nil
}

func (r *adminRepository) GetByEmail(
	ctx context.Context,
	tx *gorm.DB,
	email string,
) (*Admin, error) {
	log := logger.NewWithContext(ctx, "adminRepository").Function("GetByEmail")

	var admin Admin
	if err := tx.WithContext(ctx).First(&admin, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get admin by email", err)
	}
	return &admin, nil
}

func (r *adminRepository) Create(ctx context.Context, tx *gorm.DB, admin *Admin) error {
	log := logger.NewWithContext(ctx, "adminRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(admin).Error; err != nil {
		return log.Err("failed to create admin", err)
	}
	return nil
}
