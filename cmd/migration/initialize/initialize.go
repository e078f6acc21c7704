package initialize

import (
	"os"

	"innkeep/config"
	. "innkeep/internal/models"
	"innkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeSuperadmin(db, log); err != nil {
		return log.Err("failed to initialize superadmin", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeSuperadmin bootstraps the first account from the environment so a
// fresh deployment can log in. Skipped when the variables are unset or the
// account already exists.
func initializeSuperadmin(db *gorm.DB, log logger.Logger) error {
	email := os.Getenv("INITIAL_ADMIN_EMAIL")
	password := os.Getenv("INITIAL_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Info("No initial admin configured, skipping superadmin bootstrap")
		return nil
	}

	var existing Admin
	if err := db.First(&existing, "email = ?", email).Error; err == nil {
		log.Info("Superadmin already exists", "email", email)
		return nil
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return log.Err("failed to hash initial admin password", err)
	}

	admin := Admin{
		Email:        email,
		PasswordHash: hash,
		Name:         "Superadmin",
		Role:         RoleSuperadmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return log.Err("failed to create superadmin", err, "email", email)
	}

	log.Info("Superadmin created", "email", email)
	return nil
}
