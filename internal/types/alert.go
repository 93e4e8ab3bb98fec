package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	AlertOutOfRange = "OUT_OF_RANGE"
	AlertGateFail   = "GATE_FAIL"
)

const (
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

// Alert is append-only; the only permitted mutation is acknowledgement.
type Alert struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BatchID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"batch_id"`
	StageRecordID    *uuid.UUID `gorm:"type:uuid;index" json:"stage_record_id,omitempty"`
	Type             string     `gorm:"column:type;not null" json:"type"`
	Severity         string     `gorm:"column:severity;not null" json:"severity"`
	Message          string     `gorm:"column:message;not null" json:"message"`
	AcknowledgedByID *uuid.UUID `gorm:"type:uuid" json:"acknowledged_by_id,omitempty"`
	AcknowledgedAt   *time.Time `gorm:"column:acknowledged_at" json:"acknowledged_at,omitempty"`
	AcknowledgedNote string     `gorm:"column:acknowledged_note" json:"acknowledged_note"`
	CreatedAt        time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (Alert) TableName() string { return "alert" }
