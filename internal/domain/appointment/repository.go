package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agendusalao/salon-api/internal/models"
)

type Repository interface {
	// -------- Salon --------
	GetSalonByID(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Salon, error)

	// -------- Referenced rows (salon-scoped lookups) --------
	GetService(
		ctx context.Context,
		salonID uuid.UUID,
		serviceID uuid.UUID,
	) (*models.Service, error)

	GetClient(
		ctx context.Context,
		salonID uuid.UUID,
		clientID uuid.UUID,
	) (*models.Client, error)

	GetProfessional(
		ctx context.Context,
		salonID uuid.UUID,
		professionalID uuid.UUID,
	) (*models.Professional, error)

	// -------- Schedule --------
	GetWorkingHours(
		ctx context.Context,
		salonID uuid.UUID,
		dayOfWeek int,
	) (*models.WorkingHours, error)

	ListBlockingAppointments(
		ctx context.Context,
		salonID uuid.UUID,
		professionalID uuid.UUID,
		date time.Time,
	) ([]models.Appointment, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// CompleteAppointment persists the completed appointment and the
	// commission transaction as one atomic unit.
	CompleteAppointment(
		ctx context.Context,
		ap *models.Appointment,
		txn *models.Transaction,
	) error
}
