// Package scheduler owns the recurring jobs: the daily license sweep and
// the daily appointment reminders.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/agendusalao/salon-api/internal/models"
	"github.com/agendusalao/salon-api/internal/timezone"
	"github.com/agendusalao/salon-api/internal/whatsapp"
)

const dailySpec = "0 9 * * *"

type Scheduler struct {
	db       *gorm.DB
	client   *whatsapp.Client
	sessions whatsapp.SessionStore
	log      zerolog.Logger
	cron     *cron.Cron
}

func New(db *gorm.DB, client *whatsapp.Client, sessions whatsapp.SessionStore, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		db:       db,
		client:   client,
		sessions: sessions,
		log:      log.With().Str("component", "scheduler").Logger(),
		cron:     cron.New(),
	}
}

// Start registers the jobs and launches the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(dailySpec, s.runLicenseSweep); err != nil {
		return fmt.Errorf("register license sweep: %w", err)
	}
	if _, err := s.cron.AddFunc(dailySpec, s.runReminders); err != nil {
		return fmt.Errorf("register reminders: %w", err)
	}

	s.cron.Start()
	s.log.Info().Msg("scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runLicenseSweep() {
	if err := s.SweepExpiredLicenses(context.Background(), timezone.Now()); err != nil {
		s.log.Error().Err(err).Msg("license sweep failed")
	}
}

// SweepExpiredLicenses marks TRIAL and ACTIVE salons whose expiry date
// has passed as EXPIRED. Their users fail the license gate on next login.
func (s *Scheduler) SweepExpiredLicenses(ctx context.Context, now time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&models.Salon{}).
		Where("license_status IN ?", []string{models.LicenseTrial, models.LicenseActive}).
		Where("expires_at < ?", now).
		Update("license_status", models.LicenseExpired)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected > 0 {
		s.log.Info().Int64("salons", res.RowsAffected).Msg("licenses expired")
	}
	return nil
}

func (s *Scheduler) runReminders() {
	if err := s.SendAppointmentReminders(context.Background(), timezone.Now()); err != nil {
		s.log.Error().Err(err).Msg("reminder run failed")
	}
}

// SendAppointmentReminders messages every client with a SCHEDULED or
// CONFIRMED appointment tomorrow, for salons with a connected session.
func (s *Scheduler) SendAppointmentReminders(ctx context.Context, now time.Time) error {
	tomorrow := now.AddDate(0, 0, 1)
	dayStart := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, tomorrow.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var appointments []models.Appointment
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ?", dayStart, dayEnd).
		Where("status IN ?", []string{"SCHEDULED", "CONFIRMED"}).
		Preload("Client").Preload("Service").
		Find(&appointments).Error
	if err != nil {
		return err
	}

	connected := map[string]bool{}
	sent := 0

	for _, ap := range appointments {
		key := ap.SalonID.String()
		ok, seen := connected[key]
		if !seen {
			sess, err := s.sessions.Get(ctx, ap.SalonID)
			if err != nil {
				s.log.Warn().Err(err).Str("salon", key).Msg("session lookup failed")
				connected[key] = false
				continue
			}
			ok = sess.State == whatsapp.StateConnected
			connected[key] = ok
		}
		if !ok {
			continue
		}

		if ap.Client.Phone == "" {
			continue
		}

		text := fmt.Sprintf(
			"Olá %s! Lembrete do seu agendamento amanhã às %s: %s. Até lá!",
			ap.Client.Name, ap.StartTime, ap.Service.Name,
		)
		if _, err := s.client.SendMessage(ctx, s.client.InstanceFor(ap.SalonID), ap.Client.Phone, text); err != nil {
			s.log.Warn().Err(err).Str("appointment", ap.ID.String()).Msg("reminder send failed")
			continue
		}
		sent++
	}

	s.log.Info().Int("appointments", len(appointments)).Int("sent", sent).Msg("reminder run finished")
	return nil
}
