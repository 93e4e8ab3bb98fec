package types

import (
	"time"

	"github.com/google/uuid"
)

// BatchFlavourSplit records packs of one flavour produced from one batch of a
// flavour-deferred product. A single batch may yield several flavours.
type BatchFlavourSplit struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BatchID   uuid.UUID `gorm:"type:uuid;not null;index" json:"batch_id"`
	FlavourID uuid.UUID `gorm:"type:uuid;not null;index" json:"flavour_id"`
	Flavour   *Flavour  `gorm:"foreignKey:FlavourID;references:ID" json:"flavour,omitempty"`
	PackCount int       `gorm:"column:pack_count;not null" json:"pack_count"`
	Notes     string    `gorm:"column:notes" json:"notes"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (BatchFlavourSplit) TableName() string { return "batch_flavour_split" }
