package repositories

import (
	"context"
	"testing"

	. "innkeep/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestStayUpdateStatus_WritesWhenChanged(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewStayRepository()
	stayID := uuid.New()

	mock.ExpectExec(`UPDATE "stays" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	changed, err := repo.UpdateStatus(context.Background(), gormDB, stayID, StayStatusOccupied)

	assert.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStayUpdateStatus_NoOpWhenUnchanged(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewStayRepository()
	stayID := uuid.New()

	// The WHERE clause excludes rows already holding the target status, so
	// a no-change write affects zero rows.
	mock.ExpectExec(`UPDATE "stays" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.UpdateStatus(context.Background(), gormDB, stayID, StayStatusOccupied)

	assert.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomUpdateStatus_NoOpWhenUnchanged(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := &roomRepository{}
	roomID := uuid.New()

	mock.ExpectExec(`UPDATE "rooms" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.UpdateStatus(context.Background(), gormDB, roomID, RoomStatusFree)

	assert.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
