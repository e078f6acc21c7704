package models

import (
	"time"

	"github.com/google/uuid"
)

// GuestLink gives a guest token-scoped read access to their own stay.
type GuestLink struct {
	BaseUUIDModel
	StayID    uuid.UUID `gorm:"type:uuid;not null;index"       json:"stayId"`
	TokenID   string    `gorm:"type:text;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null"                       json:"expiresAt"`
	Revoked   bool      `gorm:"type:bool;default:false"        json:"revoked"`

	Stay Stay `gorm:"foreignKey:StayID" json:"stay,omitempty"`
}

func (g *GuestLink) IsUsable(now time.Time) bool {
	return !g.Revoked && now.Before(g.ExpiresAt)
}
