package types

import (
	"time"

	"github.com/google/uuid"
)

// ProcessStage is one step of a product's live process definition. Version
// increments on every edit to the stage or any of its fields; batches created
// before an edit keep the version they snapshotted.
type ProcessStage struct {
	ID        uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProductID uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string       `gorm:"column:name;not null" json:"name"`
	Order     int          `gorm:"column:stage_order;not null" json:"order"`
	IsQcGate  bool         `gorm:"column:is_qc_gate;not null;default:false" json:"is_qc_gate"`
	Version   int          `gorm:"column:version;not null;default:1" json:"version"`
	Active    bool         `gorm:"column:active;not null;default:true" json:"active"`
	Fields    []StageField `gorm:"foreignKey:StageID;references:ID" json:"fields,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (ProcessStage) TableName() string { return "process_stage" }
