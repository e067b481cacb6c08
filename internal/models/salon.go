package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LicenseTrial     = "TRIAL"
	LicenseActive    = "ACTIVE"
	LicenseSuspended = "SUSPENDED"
	LicenseExpired   = "EXPIRED"
)

// Salon is the tenant root: every business entity hangs off its ID.
type Salon struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	OwnerName string    `gorm:"size:100" json:"owner_name"`
	Email     string    `gorm:"size:100" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`

	Address string `gorm:"size:255" json:"address"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:50" json:"state"`
	ZipCode string `gorm:"size:20" json:"zip_code"`

	LicenseKey    string    `gorm:"size:30;uniqueIndex;not null" json:"license_key"`
	PlanType      string    `gorm:"size:20;default:'STARTER'" json:"plan_type"`
	LicenseStatus string    `gorm:"size:20;default:'TRIAL'" json:"license_status"`
	ExpiresAt     time.Time `json:"expires_at"`

	OwnerID  uuid.UUID `gorm:"type:uuid" json:"owner_id"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Salon) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
