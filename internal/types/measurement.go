package types

import (
	"time"

	"github.com/google/uuid"
)

// Measurement is the captured value for one (stage record, snapshot field)
// pair. OCRRawValue is the original OCR reading and is immutable once set;
// Value may be human-corrected afterwards, with CorrectedFrom keeping the
// prior value for the audit trail.
type Measurement struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StageRecordID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_measurement_record_field" json:"stage_record_id"`
	FieldID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_measurement_record_field" json:"field_id"`
	Value         string     `gorm:"column:value;not null" json:"value"`
	OCRRawValue   *string    `gorm:"column:ocr_raw_value" json:"ocr_raw_value,omitempty"`
	OCRConfidence *float64   `gorm:"column:ocr_confidence" json:"ocr_confidence,omitempty"`
	IsCorrected   bool       `gorm:"column:is_corrected;not null;default:false" json:"is_corrected"`
	CorrectedFrom *string    `gorm:"column:corrected_from" json:"corrected_from,omitempty"`
	RecordedByID  *uuid.UUID `gorm:"type:uuid" json:"recorded_by_id,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Measurement) TableName() string { return "measurement" }
