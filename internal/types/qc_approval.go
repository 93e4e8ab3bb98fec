package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	QCResultApproved = "APPROVED"
	QCResultRejected = "REJECTED"
)

const (
	DispositionProceed = "PROCEED"
	DispositionRework  = "REWORK"
	DispositionHold    = "HOLD"
	DispositionReject  = "REJECT"
)

// QCApproval is the terminal human verdict for a QC-gate stage record. At
// most one exists per stage record.
type QCApproval struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BatchID       uuid.UUID `gorm:"type:uuid;not null;index" json:"batch_id"`
	StageRecordID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"stage_record_id"`
	ApproverID    uuid.UUID `gorm:"type:uuid;not null" json:"approver_id"`
	Approver      *User     `gorm:"foreignKey:ApproverID;references:ID" json:"approver,omitempty"`
	Result        string    `gorm:"column:result;not null" json:"result"`
	TastePass     *bool     `gorm:"column:taste_pass" json:"taste_pass,omitempty"`
	TasteNote     string    `gorm:"column:taste_note" json:"taste_note"`
	TexturePass   *bool     `gorm:"column:texture_pass" json:"texture_pass,omitempty"`
	TextureNote   string    `gorm:"column:texture_note" json:"texture_note"`
	SmellPass     *bool     `gorm:"column:smell_pass" json:"smell_pass,omitempty"`
	SmellNote     string    `gorm:"column:smell_note" json:"smell_note"`
	VisualPass    *bool     `gorm:"column:visual_pass" json:"visual_pass,omitempty"`
	VisualNote    string    `gorm:"column:visual_note" json:"visual_note"`
	WaterActivity *float64  `gorm:"column:water_activity" json:"water_activity,omitempty"`
	PH            *float64  `gorm:"column:ph" json:"ph,omitempty"`
	Disposition   string    `gorm:"column:disposition" json:"disposition"`
	Notes         string    `gorm:"column:notes" json:"notes"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (QCApproval) TableName() string { return "qc_approval" }
