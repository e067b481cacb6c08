package appointment_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/agendusalao/salon-api/internal/domain/appointment"
	"github.com/agendusalao/salon-api/internal/httperr"
	"github.com/agendusalao/salon-api/internal/models"
	"github.com/agendusalao/salon-api/internal/timezone"
	usecase "github.com/agendusalao/salon-api/internal/usecase/appointment"
)

func seedBookable(repo *fakeRepo, salonID uuid.UUID) usecase.CreateAppointmentInput {
	repo.salon = &models.Salon{ID: salonID, IsActive: true}
	svc := &models.Service{ID: uuid.New(), SalonID: salonID, Name: "Corte", Price: decimal.RequireFromString("80.00"), Duration: 60}
	cl := &models.Client{ID: uuid.New(), SalonID: salonID, Name: "Maria", Phone: "+5511999998888"}
	prof := &models.Professional{ID: uuid.New(), SalonID: salonID, Name: "Ana"}
	repo.service = svc
	repo.client = cl
	repo.professional = prof
	repo.workingHours = &models.WorkingHours{SalonID: salonID, StartTime: "09:00", EndTime: "18:00"}

	return usecase.CreateAppointmentInput{
		SalonID:        salonID,
		UserID:         uuid.New(),
		ClientID:       cl.ID,
		ServiceID:      svc.ID,
		ProfessionalID: prof.ID,
		Date:           timezone.Today().AddDate(0, 0, 7).Format("2006-01-02"),
		StartTime:      "10:00",
	}
}

func TestCreateAppointment_HappyPath(t *testing.T) {
	repo := newFakeRepo()
	salonID := uuid.New()
	in := seedBookable(repo, salonID)

	uc := usecase.NewCreateAppointment(repo, testDispatcher())

	ap, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	assert.Equal(t, "10:00", ap.StartTime)
	assert.Equal(t, "11:00", ap.EndTime, "end derived from service duration")
	assert.True(t, ap.TotalPrice.Equal(decimal.RequireFromString("80.00")), "price copied from service")
	assert.Len(t, repo.created, 1)
}

func TestCreateAppointment_PastDateRejected(t *testing.T) {
	repo := newFakeRepo()
	salonID := uuid.New()
	in := seedBookable(repo, salonID)
	in.Date = timezone.Today().AddDate(0, 0, -1).Format("2006-01-02")

	uc := usecase.NewCreateAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "date_in_past"))
}

// The past-date guard runs in the salon calendar, so today in São Paulo
// books even when the server's local date has already rolled over.
func TestCreateAppointment_SalonTodayAccepted(t *testing.T) {
	repo := newFakeRepo()
	salonID := uuid.New()
	in := seedBookable(repo, salonID)
	in.Date = timezone.Today().Format("2006-01-02")

	uc := usecase.NewCreateAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), in)
	assert.NoError(t, err)
}

func TestCreateAppointment_OutsideWorkingHours(t *testing.T) {
	repo := newFakeRepo()
	salonID := uuid.New()
	in := seedBookable(repo, salonID)
	in.StartTime = "17:30" // 60-minute service runs past 18:00

	uc := usecase.NewCreateAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"))
}

func TestCreateAppointment_ClosedDayRejected(t *testing.T) {
	repo := newFakeRepo()
	salonID := uuid.New()
	in := seedBookable(repo, salonID)
	repo.workingHours.IsClosed = true

	uc := usecase.NewCreateAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "salon_closed"))
}

func TestCreateAppointment_OverlapConflicts(t *testing.T) {
	repo := newFakeRepo()
	salonID := uuid.New()
	in := seedBookable(repo, salonID)
	repo.blocking = []models.Appointment{
		{StartTime: "10:30", EndTime: "11:30", Status: string(domain.StatusConfirmed)},
	}

	uc := usecase.NewCreateAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeConflict))
	assert.Empty(t, repo.created)
}

func TestCreateAppointment_BackToBackAllowed(t *testing.T) {
	repo := newFakeRepo()
	salonID := uuid.New()
	in := seedBookable(repo, salonID)
	repo.blocking = []models.Appointment{
		{StartTime: "09:00", EndTime: "10:00", Status: string(domain.StatusConfirmed)},
	}

	uc := usecase.NewCreateAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), in)
	assert.NoError(t, err, "touching windows do not overlap")
}

func TestCreateAppointment_InactiveSalonRejected(t *testing.T) {
	repo := newFakeRepo()
	salonID := uuid.New()
	in := seedBookable(repo, salonID)
	repo.salon.IsActive = false

	uc := usecase.NewCreateAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "salon_inactive"))
}

func TestCreateAppointment_ForeignServiceIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	salonID := uuid.New()
	in := seedBookable(repo, salonID)
	repo.service.SalonID = uuid.New()

	uc := usecase.NewCreateAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))
}
