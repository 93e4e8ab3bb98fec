package types

import (
	"time"

	"github.com/google/uuid"
)

type Flavour struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_flavour_product_code" json:"product_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Code      string    `gorm:"column:code;not null;uniqueIndex:idx_flavour_product_code" json:"code"`
	Active    bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Flavour) TableName() string { return "flavour" }
