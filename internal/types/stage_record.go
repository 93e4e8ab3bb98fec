package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	OCRPending    = "PENDING"
	OCRProcessing = "PROCESSING"
	OCRCompleted  = "COMPLETED"
	OCRFailed     = "FAILED"
)

// StageRecord tracks progress for one (batch, snapshot stage) pair. StageID
// refers to the stage id frozen in the batch's snapshot, not a live foreign
// key into process_stage.
type StageRecord struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BatchID          uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_stage_record_batch_stage" json:"batch_id"`
	StageID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_stage_record_batch_stage" json:"stage_id"`
	StartedAt        *time.Time     `gorm:"column:started_at" json:"started_at,omitempty"`
	RecordedByID     *uuid.UUID     `gorm:"type:uuid" json:"recorded_by_id,omitempty"`
	FormPhotoUrls    datatypes.JSON `gorm:"column:form_photo_urls;type:jsonb" json:"form_photo_urls"`
	OCRStatus        string         `gorm:"column:ocr_status;not null;default:'PENDING'" json:"ocr_status"`
	OCRConfidenceAvg *float64       `gorm:"column:ocr_confidence_avg" json:"ocr_confidence_avg,omitempty"`
	OCRRawResult     datatypes.JSON `gorm:"column:ocr_raw_result;type:jsonb" json:"ocr_raw_result,omitempty"`
	CommittedAt      *time.Time     `gorm:"column:committed_at" json:"committed_at,omitempty"`
	CommittedByID    *uuid.UUID     `gorm:"type:uuid" json:"committed_by_id,omitempty"`
	CompletedAt      *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Measurements     []Measurement  `gorm:"foreignKey:StageRecordID;references:ID" json:"measurements,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (StageRecord) TableName() string { return "stage_record" }
