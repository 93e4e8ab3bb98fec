package types

import (
	"time"

	"github.com/google/uuid"
)

// Product is a manufactured good. FlavourRequired=false marks a
// flavour-deferred product: flavour is assigned per pack after production,
// so batches of it carry a nil FlavourID and report output through
// BatchFlavourSplit rows instead.
type Product struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name            string         `gorm:"column:name;not null" json:"name"`
	Code            string         `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Category        string         `gorm:"column:category" json:"category"`
	FlavourRequired bool           `gorm:"column:flavour_required;not null;default:true" json:"flavour_required"`
	Active          bool           `gorm:"column:active;not null;default:true" json:"active"`
	Stages          []ProcessStage `gorm:"foreignKey:ProductID;references:ID" json:"stages,omitempty"`
	Flavours        []Flavour      `gorm:"foreignKey:ProductID;references:ID" json:"flavours,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Product) TableName() string { return "product" }
