package database

import (
	"innkeep/internal/logger"
	"innkeep/internal/models"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.Admin{},
		&models.Room{},
		&models.Stay{},
		&models.GuestLink{},
		&models.AuditLog{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			log.Error("Failed to migrate model", "model", model, "error", err)
			return err
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		// Candidate-stay lookups during a tick: active stays by room + range.
		"CREATE INDEX IF NOT EXISTS idx_stays_room_status_range ON stays(room_id, status, check_in, check_out)",
		// Overdue sweep scans by status + needs_action.
		"CREATE INDEX IF NOT EXISTS idx_stays_status_needs_action ON stays(status, needs_action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_entity ON audit_logs(entity_type, entity_id, created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.SQL.Exec(index).Error; err != nil {
			log.Error("Failed to create index", "index", index, "error", err)
			return err
		}
	}

	log.Info("Additional indexes created successfully")
	return nil
}
