package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agendusalao/salon-api/internal/audit"
	domain "github.com/agendusalao/salon-api/internal/domain/appointment"
	"github.com/agendusalao/salon-api/internal/httperr"
	"github.com/agendusalao/salon-api/internal/models"
	"github.com/agendusalao/salon-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	SalonID uuid.UUID
	UserID  uuid.UUID

	ClientID       uuid.UUID
	ServiceID      uuid.UUID
	ProfessionalID uuid.UUID

	Date      string // "2006-01-02"
	StartTime string // "HH:MM"
	Notes     string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	// "Past" is judged against the salon calendar, not the server clock.
	if date.Before(timezone.Today()) {
		return nil, httperr.ErrBusiness("date_in_past")
	}

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil || !salon.IsActive {
		return nil, httperr.ErrBusiness("salon_inactive")
	}

	svc, err := uc.repo.GetService(ctx, in.SalonID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	if _, err := uc.repo.GetClient(ctx, in.SalonID, in.ClientID); err != nil {
		return nil, httperr.ErrBusiness("client_not_found")
	}

	if _, err := uc.repo.GetProfessional(ctx, in.SalonID, in.ProfessionalID); err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	endTime, err := domain.AddMinutes(in.StartTime, svc.Duration)
	if err != nil {
		return nil, err
	}

	// Opening window for the weekday.
	wh, err := uc.repo.GetWorkingHours(ctx, in.SalonID, int(date.Weekday()))
	if err != nil || wh.IsClosed {
		return nil, httperr.ErrBusiness("salon_closed")
	}
	if !domain.WithinWindow(in.StartTime, endTime, wh.StartTime, wh.EndTime) {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	// Professional's calendar.
	existing, err := uc.repo.ListBlockingAppointments(ctx, in.SalonID, in.ProfessionalID, date)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if domain.Overlaps(in.StartTime, endTime, other.StartTime, other.EndTime) {
			return nil, httperr.ErrBusiness(httperr.CodeConflict)
		}
	}

	ap := &models.Appointment{
		SalonID:        in.SalonID,
		ClientID:       in.ClientID,
		ServiceID:      in.ServiceID,
		ProfessionalID: in.ProfessionalID,
		Date:           date,
		StartTime:      in.StartTime,
		EndTime:        endTime,
		Status:         string(domain.InitialStatus()),
		TotalPrice:     svc.Price,
		Notes:          in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
