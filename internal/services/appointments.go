package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arnold/coachly-api/internal/models"
	"github.com/arnold/coachly-api/internal/store"
	"go.uber.org/zap"
)

type AppointmentService struct {
	repo     store.AppointmentRepository
	notifier *Notifier
	opts     Options
}

func NewAppointmentService(repo store.AppointmentRepository, notifier *Notifier, opts Options) *AppointmentService {
	return &AppointmentService{repo: repo, notifier: notifier, opts: opts.withDefaults()}
}

// List returns the caller's appointments by date, soonest first.
func (s *AppointmentService) List(ctx context.Context, id models.Identity) ([]models.Appointment, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	list, err := s.repo.ListByUser(ctx, id.UID)
	if err != nil {
		return nil, err
	}
	models.SortAppointments(list)
	return list, nil
}

func (s *AppointmentService) Get(ctx context.Context, id models.Identity, apptID string) (*models.Appointment, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	appt, err := s.repo.Get(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if err := owned(appt.UserID, id); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *AppointmentService) Create(ctx context.Context, id models.Identity, req models.AppointmentRequest) (*models.Appointment, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	in, err := s.input(req)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(s.opts.Now()); err != nil {
		return nil, err
	}

	appt := models.Appointment{UserID: id.UID}
	appt.Apply(in)
	if err := s.repo.Create(ctx, &appt); err != nil {
		s.opts.Logger.Error("create appointment failed", zap.String("user_id", id.UID), zap.Error(err))
		return nil, err
	}

	s.opts.Events.Publish(id.UID, models.Event{Type: models.EventAppointmentCreated, ID: appt.ID, Data: appt})
	s.notify(ctx, id.UID, models.NotifyAppointmentScheduled, "Session scheduled", appt)
	return &appt, nil
}

// Update applies the same scheduling rules as Create, including a future date.
func (s *AppointmentService) Update(ctx context.Context, id models.Identity, apptID string, req models.AppointmentRequest) (*models.Appointment, error) {
	appt, err := s.Get(ctx, id, apptID)
	if err != nil {
		return nil, err
	}
	in, err := s.input(req)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(s.opts.Now()); err != nil {
		return nil, err
	}

	appt.Apply(in)
	if err := s.repo.Update(ctx, appt); err != nil {
		s.opts.Logger.Error("update appointment failed", zap.String("appointment_id", appt.ID), zap.Error(err))
		return nil, err
	}

	s.opts.Events.Publish(id.UID, models.Event{Type: models.EventAppointmentUpdated, ID: appt.ID, Data: appt})
	s.notify(ctx, id.UID, models.NotifyAppointmentUpdated, "Session updated", *appt)
	return appt, nil
}

// Cancel hard-deletes the appointment once the caller confirmed.
func (s *AppointmentService) Cancel(ctx context.Context, id models.Identity, apptID string, confirm bool) error {
	appt, err := s.Get(ctx, id, apptID)
	if err != nil {
		return err
	}
	if err := confirmed(confirm); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, appt.ID); err != nil {
		return err
	}
	s.opts.Events.Publish(id.UID, models.Event{Type: models.EventAppointmentDeleted, ID: appt.ID})
	return nil
}

// Upcoming returns at most limit appointments from now on.
func (s *AppointmentService) Upcoming(ctx context.Context, id models.Identity, limit int) ([]models.Appointment, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	return s.repo.ListUpcoming(ctx, id.UID, s.opts.Now(), limit)
}

// input combines the date and time fields in the configured location.
// A date without time must be a full RFC3339 timestamp.
func (s *AppointmentService) input(req models.AppointmentRequest) (models.AppointmentInput, error) {
	in := models.AppointmentInput{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Coach:       req.Coach,
		Status:      req.Status,
	}
	in.Normalize()

	date, clock := strings.TrimSpace(req.Date), strings.TrimSpace(req.Time)
	switch {
	case date == "" && clock == "":
	case clock == "":
		t, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return in, dateError("Invalid date or time")
		}
		in.Date = t
	default:
		t, err := models.CombineDateTime(date, clock, s.opts.Location)
		if err != nil {
			return in, dateError("Invalid date or time")
		}
		in.Date = t
	}
	return in, nil
}

func dateError(msg string) error {
	var v models.Validation
	v.Add("date", msg)
	return v.Err()
}

func (s *AppointmentService) notify(ctx context.Context, uid, kind, title string, appt models.Appointment) {
	if s.notifier == nil {
		return
	}
	when := appt.Date.In(s.opts.Location).Format("Mon Jan 2 at 15:04")
	body := fmt.Sprintf("%s with %s on %s (%d min)", appt.Title, appt.Coach, when, appt.Duration)
	s.notifier.Notify(ctx, uid, kind, title, body, map[string]string{"appointmentId": appt.ID})
}
