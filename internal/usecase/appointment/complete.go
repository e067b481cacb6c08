package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agendusalao/salon-api/internal/audit"
	domain "github.com/agendusalao/salon-api/internal/domain/appointment"
	"github.com/agendusalao/salon-api/internal/finance"
	"github.com/agendusalao/salon-api/internal/httperr"
	"github.com/agendusalao/salon-api/internal/models"
	"github.com/agendusalao/salon-api/internal/tenant"
)

type CompleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute flips the appointment to COMPLETED and posts the commission
// transaction in the same database transaction. A non-nil price is
// applied first so the ledger row matches the final appointment price.
// A repeat call on an already-completed appointment returns it
// unchanged and posts nothing.
func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	salonID uuid.UUID,
	userID uuid.UUID,
	appointmentID uuid.UUID,
	price *decimal.Decimal,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if err := tenant.Authorize(salonID, ap.SalonID); err != nil {
		return nil, err
	}

	if price != nil {
		ap.TotalPrice = *price
	}

	now := time.Now()
	if err := domain.Complete(ap, now); err != nil {
		if errors.Is(err, domain.ErrAlreadyCompleted) {
			return ap, nil
		}
		return nil, err
	}

	// Rate frozen at completion time; a missing professional posts at 0.
	var rate float64
	var professionalID *uuid.UUID
	if prof, err := uc.repo.GetProfessional(ctx, salonID, ap.ProfessionalID); err == nil {
		rate = prof.Commission
		professionalID = &prof.ID
	}

	svc, err := uc.repo.GetService(ctx, salonID, ap.ServiceID)
	description := "Serviço"
	if err == nil {
		description = fmt.Sprintf("Serviço: %s", svc.Name)
	}

	txn := &models.Transaction{
		SalonID:          salonID,
		Type:             models.TransactionIncome,
		Amount:           ap.TotalPrice,
		Description:      description,
		Category:         "Serviço",
		PaymentMethod:    "CASH",
		CommissionRate:   rate,
		CommissionAmount: finance.Commission(ap.TotalPrice, rate),
		ProfessionalID:   professionalID,
		AppointmentID:    &ap.ID,
		Date:             now,
	}

	if err := uc.repo.CompleteAppointment(ctx, ap, txn); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
