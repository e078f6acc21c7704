package models

import (
	"gorm.io/gorm"
)

type AdminRole string

const (
	RoleSuperadmin AdminRole = "superadmin"
	RoleAdmin      AdminRole = "admin"
	RoleEditor     AdminRole = "editor"
)

// Admin is the hotel account (tenant) that owns a set of rooms. Its policy
// hours are the fallback when a room carries no override of its own.
type Admin struct {
	BaseUUIDModel
	Email        string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:text;not null"             json:"-"`
	Name         string    `gorm:"type:text;not null"             json:"name"`
	Role         AdminRole `gorm:"type:text;default:'editor'"     json:"role"`
	CheckInHour  *int      `gorm:"type:integer"                   json:"checkInHour,omitempty"`
	CheckOutHour *int      `gorm:"type:integer"                   json:"checkOutHour,omitempty"`

	Rooms []Room `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"rooms,omitempty"`
}

func (a *Admin) BeforeCreate(tx *gorm.DB) (err error) {
	if a.Email == "" {
		return gorm.ErrInvalidValue
	}
	if a.Role == "" {
		a.Role = RoleEditor
	}
	return nil
}

func (a *Admin) CanManage() bool {
	return a.Role == RoleSuperadmin || a.Role == RoleAdmin
}

func (a *Admin) ToProfile() map[string]any {
	return map[string]any{
		"id":    a.ID,
		"email": a.Email,
		"name":  a.Name,
		"role":  a.Role,
	}
}
