package appointment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendusalao/salon-api/internal/audit"
	domain "github.com/agendusalao/salon-api/internal/domain/appointment"
	"github.com/agendusalao/salon-api/internal/httperr"
	"github.com/agendusalao/salon-api/internal/models"
	usecase "github.com/agendusalao/salon-api/internal/usecase/appointment"
)

type fakeRepo struct {
	salon        *models.Salon
	service      *models.Service
	client       *models.Client
	professional *models.Professional
	workingHours *models.WorkingHours
	blocking     []models.Appointment
	appointments map[uuid.UUID]*models.Appointment

	created      []*models.Appointment
	completions  int
	transactions []*models.Transaction
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{appointments: make(map[uuid.UUID]*models.Appointment)}
}

var errNotFound = errors.New("not found")

func (f *fakeRepo) GetSalonByID(ctx context.Context, id uuid.UUID) (*models.Salon, error) {
	if f.salon == nil || f.salon.ID != id {
		return nil, errNotFound
	}
	return f.salon, nil
}

func (f *fakeRepo) GetService(ctx context.Context, salonID, serviceID uuid.UUID) (*models.Service, error) {
	if f.service == nil || f.service.ID != serviceID || f.service.SalonID != salonID {
		return nil, errNotFound
	}
	return f.service, nil
}

func (f *fakeRepo) GetClient(ctx context.Context, salonID, clientID uuid.UUID) (*models.Client, error) {
	if f.client == nil || f.client.ID != clientID || f.client.SalonID != salonID {
		return nil, errNotFound
	}
	return f.client, nil
}

func (f *fakeRepo) GetProfessional(ctx context.Context, salonID, professionalID uuid.UUID) (*models.Professional, error) {
	if f.professional == nil || f.professional.ID != professionalID || f.professional.SalonID != salonID {
		return nil, errNotFound
	}
	return f.professional, nil
}

func (f *fakeRepo) GetWorkingHours(ctx context.Context, salonID uuid.UUID, dayOfWeek int) (*models.WorkingHours, error) {
	if f.workingHours == nil {
		return nil, errNotFound
	}
	return f.workingHours, nil
}

func (f *fakeRepo) ListBlockingAppointments(ctx context.Context, salonID, professionalID uuid.UUID, date time.Time) ([]models.Appointment, error) {
	return f.blocking, nil
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	ap.ID = uuid.New()
	f.appointments[ap.ID] = ap
	f.created = append(f.created, ap)
	return nil
}

func (f *fakeRepo) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	ap, ok := f.appointments[id]
	if !ok {
		return nil, errNotFound
	}
	return ap, nil
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	f.appointments[ap.ID] = ap
	return nil
}

func (f *fakeRepo) CompleteAppointment(ctx context.Context, ap *models.Appointment, txn *models.Transaction) error {
	f.appointments[ap.ID] = ap
	f.completions++
	f.transactions = append(f.transactions, txn)
	return nil
}

type nopSink struct{}

func (nopSink) Log(salonID uuid.UUID, userID *uuid.UUID, action, entity string, entityID *uuid.UUID, metadata any) error {
	return nil
}

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(nopSink{}, zerolog.Nop())
}

func seedCompletable(repo *fakeRepo, salonID uuid.UUID, rate float64, price string) *models.Appointment {
	prof := &models.Professional{ID: uuid.New(), SalonID: salonID, Commission: rate}
	svc := &models.Service{ID: uuid.New(), SalonID: salonID, Name: "Corte Feminino", Price: decimal.RequireFromString(price)}
	repo.professional = prof
	repo.service = svc

	ap := &models.Appointment{
		ID:             uuid.New(),
		SalonID:        salonID,
		ServiceID:      svc.ID,
		ProfessionalID: prof.ID,
		Status:         string(domain.StatusConfirmed),
		TotalPrice:     svc.Price,
	}
	repo.appointments[ap.ID] = ap
	return ap
}

func TestCompleteAppointment_PostsIncomeOnce(t *testing.T) {
	repo := newFakeRepo()
	salonID := uuid.New()
	ap := seedCompletable(repo, salonID, 40, "150.00")

	uc := usecase.NewCompleteAppointment(repo, testDispatcher())

	got, err := uc.Execute(context.Background(), salonID, uuid.New(), ap.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), got.Status)
	require.NotNil(t, got.CompletedAt)

	require.Equal(t, 1, repo.completions)
	txn := repo.transactions[0]
	assert.Equal(t, models.TransactionIncome, txn.Type)
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("150.00")))
	assert.Equal(t, 40.0, txn.CommissionRate)
	assert.True(t, txn.CommissionAmount.Equal(decimal.RequireFromString("60.00")),
		"commission = %s", txn.CommissionAmount)
	assert.Equal(t, "Serviço: Corte Feminino", txn.Description)
	require.NotNil(t, txn.AppointmentID)
	assert.Equal(t, ap.ID, *txn.AppointmentID)
}

// A price sent alongside the completion lands on both the appointment
// and the posted transaction, never the stale stored price.
func TestCompleteAppointment_UpdatedPriceReachesLedger(t *testing.T) {
	repo := newFakeRepo()
	salonID := uuid.New()
	ap := seedCompletable(repo, salonID, 40, "50.00")

	uc := usecase.NewCompleteAppointment(repo, testDispatcher())

	price := decimal.RequireFromString("80.00")
	got, err := uc.Execute(context.Background(), salonID, uuid.New(), ap.ID, &price)
	require.NoError(t, err)

	assert.True(t, got.TotalPrice.Equal(price))
	txn := repo.transactions[0]
	assert.True(t, txn.Amount.Equal(price), "ledger amount = %s", txn.Amount)
	assert.True(t, txn.CommissionAmount.Equal(decimal.RequireFromString("32.00")),
		"commission from the updated price, got %s", txn.CommissionAmount)
}

func TestCompleteAppointment_RepeatIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	salonID := uuid.New()
	ap := seedCompletable(repo, salonID, 40, "150.00")

	uc := usecase.NewCompleteAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), salonID, uuid.New(), ap.ID, nil)
	require.NoError(t, err)

	got, err := uc.Execute(context.Background(), salonID, uuid.New(), ap.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), got.Status)

	assert.Equal(t, 1, repo.completions, "second completion must not post again")
	assert.Len(t, repo.transactions, 1)
}

func TestCompleteAppointment_MissingProfessionalPostsZeroCommission(t *testing.T) {
	repo := newFakeRepo()
	salonID := uuid.New()
	ap := seedCompletable(repo, salonID, 40, "150.00")
	repo.professional = nil

	uc := usecase.NewCompleteAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), salonID, uuid.New(), ap.ID, nil)
	require.NoError(t, err)

	txn := repo.transactions[0]
	assert.Equal(t, 0.0, txn.CommissionRate)
	assert.True(t, txn.CommissionAmount.IsZero())
	assert.Nil(t, txn.ProfessionalID)
}

func TestCompleteAppointment_WrongSalonIsDenied(t *testing.T) {
	repo := newFakeRepo()
	salonID := uuid.New()
	ap := seedCompletable(repo, salonID, 40, "150.00")

	uc := usecase.NewCompleteAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), uuid.New(), uuid.New(), ap.ID, nil)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAccessDenied))
	assert.Zero(t, repo.completions)
}

func TestCompleteAppointment_UnknownIDIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	uc := usecase.NewCompleteAppointment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), uuid.New(), uuid.New(), uuid.New(), nil)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
}

func TestCancelAppointment_FromLiveStatus(t *testing.T) {
	repo := newFakeRepo()
	salonID := uuid.New()
	ap := seedCompletable(repo, salonID, 0, "50.00")

	uc := usecase.NewCancelAppointment(repo, testDispatcher())

	got, err := uc.Execute(context.Background(), salonID, uuid.New(), ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), got.Status)
	require.NotNil(t, got.CancelledAt)

	// A cancelled appointment cannot be completed afterwards.
	complete := usecase.NewCompleteAppointment(repo, testDispatcher())
	_, err = complete.Execute(context.Background(), salonID, uuid.New(), ap.ID, nil)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState))
	assert.Zero(t, repo.completions)
}
