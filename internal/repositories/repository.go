package repositories

import (
	"innkeep/internal/database"
)

type Repository struct {
	Admin     AdminRepository
	Room      RoomRepository
	Stay      StayRepository
	GuestLink GuestLinkRepository
	AuditLog  AuditLogRepository
}

func New(db database.DB) Repository {
	return Repository{
		Admin:     NewAdminRepository(),
		Room:      NewRoomRepository(db), // room repo needs cache for the board
		Stay:      NewStayRepository(),
		GuestLink: NewGuestLinkRepository(db),
		AuditLog:  NewAuditLogRepository(),
	}
}
