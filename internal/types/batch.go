package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Batch is one production run. FlowSnapshot holds the frozen process
// definition as a jsonb document; it is written once at creation and never
// updated afterwards.
type Batch struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BatchCode      string         `gorm:"column:batch_code;not null;uniqueIndex" json:"batch_code"`
	ProductID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Product        *Product       `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`
	FlavourID      *uuid.UUID     `gorm:"type:uuid;index" json:"flavour_id,omitempty"`
	Flavour        *Flavour       `gorm:"foreignKey:FlavourID;references:ID" json:"flavour,omitempty"`
	SupplierID     *uuid.UUID     `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier       *Supplier      `gorm:"foreignKey:SupplierID;references:ID" json:"supplier,omitempty"`
	RawMaterialLot string         `gorm:"column:raw_material_lot" json:"raw_material_lot"`
	Status         BatchStatus    `gorm:"column:status;not null;default:'CREATED'" json:"status"`
	FlowSnapshot   datatypes.JSON `gorm:"column:flow_snapshot;type:jsonb;not null" json:"flow_snapshot"`
	Notes          string         `gorm:"column:notes" json:"notes"`
	CreatedByID    uuid.UUID      `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy      *User          `gorm:"foreignKey:CreatedByID;references:ID" json:"created_by,omitempty"`
	StageRecords   []StageRecord  `gorm:"foreignKey:BatchID;references:ID" json:"stage_records,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Batch) TableName() string { return "batch" }
