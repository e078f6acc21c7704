package models

import (
	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditActionCheckIn  AuditAction = "stay.checkin"
	AuditActionCheckOut AuditAction = "stay.checkout"
	AuditActionCancel   AuditAction = "stay.cancel"
	AuditActionCreate   AuditAction = "entity.create"
)

// AuditLog records operator actions. Written by the HTTP layer observing
// manual transitions, never by the reconciliation engine itself.
type AuditLog struct {
	BaseUUIDModel
	AdminID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"adminId"`
	Action     AuditAction `gorm:"type:text;not null"       json:"action"`
	EntityType string      `gorm:"type:text;not null"       json:"entityType"`
	EntityID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"entityId"`
	FromStatus *string     `gorm:"type:text"                json:"fromStatus,omitempty"`
	ToStatus   *string     `gorm:"type:text"                json:"toStatus,omitempty"`
	Forced     bool        `gorm:"type:bool;default:false"  json:"forced"`
}
