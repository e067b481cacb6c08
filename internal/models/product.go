package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Category    string `gorm:"size:50" json:"category"`
	Brand       string `gorm:"size:50" json:"brand"`

	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CostPrice decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"cost_price"`

	Stock    int    `gorm:"default:0" json:"stock"`
	MinStock int    `gorm:"default:0" json:"min_stock"`
	Unit     string `gorm:"size:20" json:"unit"`
	Barcode  string `gorm:"size:50" json:"barcode"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
