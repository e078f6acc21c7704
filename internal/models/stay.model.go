package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StayStatus string

const (
	StayStatusBooked    StayStatus = "booked"
	StayStatusOccupied  StayStatus = "occupied"
	StayStatusCompleted StayStatus = "completed"
	StayStatusCancelled StayStatus = "cancelled"
)

const (
	NeedsActionOverdueCheckIn  = "overdue_checkin"
	NeedsActionOverdueCheckOut = "overdue_checkout"
)

// Stay is a booking for one room and date range. CheckIn and CheckOut are
// date-only values stored at UTC midnight; the hour of day comes from policy.
type Stay struct {
	BaseUUIDModel
	RoomID      uuid.UUID       `gorm:"type:uuid;not null;index"   json:"roomId"`
	CheckIn     time.Time       `gorm:"type:date;not null;index"   json:"checkIn"`
	CheckOut    time.Time       `gorm:"type:date;not null;index"   json:"checkOut"`
	Status      StayStatus      `gorm:"type:text;default:'booked'" json:"status"`
	GuestNames  pq.StringArray  `gorm:"type:text[]"                json:"guestNames,omitempty"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2)"         json:"totalAmount"`

	// Set and cleared by the overdue detection job, never by the
	// reconciliation engine.
	NeedsAction       bool    `gorm:"type:bool;default:false;not null" json:"needsAction"`
	NeedsActionReason *string `gorm:"type:text"                        json:"needsActionReason,omitempty"`

	Room Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

func (s *Stay) BeforeCreate(tx *gorm.DB) (err error) {
	if !s.CheckIn.Before(s.CheckOut) {
		return gorm.ErrInvalidValue
	}
	if s.Status == "" {
		s.Status = StayStatusBooked
	}
	return nil
}

// IsActive reports whether the stay still holds or will hold the room.
func (s *Stay) IsActive() bool {
	return s.Status == StayStatusBooked || s.Status == StayStatusOccupied
}

// IsTerminal reports whether the engine must never revisit this stay.
func (s *Stay) IsTerminal() bool {
	return s.Status == StayStatusCompleted || s.Status == StayStatusCancelled
}
