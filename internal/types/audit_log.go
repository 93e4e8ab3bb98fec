package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is append-only and written best-effort after the primary
// transaction commits.
type AuditLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     *uuid.UUID     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action     string         `gorm:"column:action;not null" json:"action"`
	EntityType string         `gorm:"column:entity_type;not null;index" json:"entity_type"`
	EntityID   string         `gorm:"column:entity_id;index" json:"entity_id"`
	OldValue   datatypes.JSON `gorm:"column:old_value;type:jsonb" json:"old_value,omitempty"`
	NewValue   datatypes.JSON `gorm:"column:new_value;type:jsonb" json:"new_value,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_log" }
