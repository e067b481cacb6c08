package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Client belongs to exactly one salon; the phone is the natural key
// inside that salon.
type Client struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100" json:"email"`
	Phone string `gorm:"size:20;not null" json:"phone"`

	BirthDate   *time.Time `json:"birth_date"`
	Address     string     `gorm:"size:255" json:"address"`
	Notes       string     `gorm:"size:500" json:"notes"`
	Preferences string     `gorm:"type:text" json:"preferences"`

	TotalSpent  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"total_spent"`
	TotalVisits int             `gorm:"default:0" json:"total_visits"`
	LastVisit   *time.Time      `json:"last_visit"`

	Status string `gorm:"size:20;default:'ACTIVE'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
