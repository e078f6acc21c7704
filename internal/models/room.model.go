package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomStatus string

const (
	RoomStatusFree     RoomStatus = "free"
	RoomStatusBooked   RoomStatus = "booked"
	RoomStatusOccupied RoomStatus = "occupied"
	RoomStatusCleaning RoomStatus = "cleaning"
)

// Room is a bookable unit. Status is a cached projection of the room's stays
// and is only written by the reconciliation engine and the manual transition
// service; room creation seeds it to free.
type Room struct {
	BaseUUIDModel
	AdminID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"adminId"`
	Name        string          `gorm:"type:text;not null"       json:"name"`
	Floor       int             `gorm:"type:integer;default:0"   json:"floor"`
	Status      RoomStatus      `gorm:"type:text;default:'free'" json:"status"`
	NightlyRate decimal.Decimal `gorm:"type:decimal(10,2)"       json:"nightlyRate"`
	Amenities   datatypes.JSON  `gorm:"type:jsonb"               json:"amenities,omitempty"`

	// Per-room policy hour overrides. The pair is atomic: a room with only
	// one hour set falls through to the admin's hours for both.
	CheckInHour  *int `gorm:"type:integer" json:"checkInHour,omitempty"`
	CheckOutHour *int `gorm:"type:integer" json:"checkOutHour,omitempty"`

	Admin Admin  `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Stays []Stay `gorm:"foreignKey:RoomID"  json:"stays,omitempty"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) (err error) {
	if r.Name == "" {
		return gorm.ErrInvalidValue
	}
	if r.Status == "" {
		r.Status = RoomStatusFree
	}
	return nil
}
