package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	FieldTypeNumber   = "NUMBER"
	FieldTypeText     = "TEXT"
	FieldTypeBoolean  = "BOOLEAN"
	FieldTypeSelect   = "SELECT"
	FieldTypeDatetime = "DATETIME"
)

func ValidFieldType(t string) bool {
	switch t {
	case FieldTypeNumber, FieldTypeText, FieldTypeBoolean, FieldTypeSelect, FieldTypeDatetime:
		return true
	}
	return false
}

// StageField is one data point captured at a stage. Options is a
// comma-separated list and only meaningful for SELECT fields; MinValue and
// MaxValue only for NUMBER fields.
type StageField struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StageID   uuid.UUID `gorm:"type:uuid;not null;index" json:"stage_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	LabelEn   string    `gorm:"column:label_en;not null" json:"label_en"`
	LabelHi   string    `gorm:"column:label_hi" json:"label_hi"`
	FieldType string    `gorm:"column:field_type;not null;default:'TEXT'" json:"field_type"`
	Unit      string    `gorm:"column:unit" json:"unit"`
	MinValue  *float64  `gorm:"column:min_value" json:"min_value,omitempty"`
	MaxValue  *float64  `gorm:"column:max_value" json:"max_value,omitempty"`
	Required  bool      `gorm:"column:required;not null;default:false" json:"required"`
	Options   string    `gorm:"column:options" json:"options"`
	Order     int       `gorm:"column:field_order;not null" json:"order"`
	Active    bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (StageField) TableName() string { return "stage_field" }
