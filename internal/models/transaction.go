package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionIncome  = "INCOME"
	TransactionExpense = "EXPENSE"
)

// Transaction is a ledger row. Commission fields are frozen at creation
// time; a later change to the professional's rate never rewrites them.
type Transaction struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`

	Type        string          `gorm:"size:10;not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description string          `gorm:"size:255" json:"description"`
	Category    string          `gorm:"size:50;default:'Outros'" json:"category"`

	PaymentMethod string `gorm:"size:20;default:'CASH'" json:"payment_method"`

	CommissionRate   float64         `gorm:"default:0" json:"commission_rate"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"commission_amount"`

	ProfessionalID *uuid.UUID    `gorm:"type:uuid" json:"professional_id"`
	Professional   *Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"professional,omitempty"`

	AppointmentID *uuid.UUID   `gorm:"type:uuid" json:"appointment_id"`
	Appointment   *Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"appointment,omitempty"`

	Date time.Time `gorm:"index" json:"date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
