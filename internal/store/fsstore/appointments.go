package fsstore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/arnold/coachly-api/internal/models"
)

type appointmentRepo struct {
	client *firestore.Client
}

func setAppointmentID(a *models.Appointment, id string) { a.ID = id }

func (r *appointmentRepo) col() *firestore.CollectionRef {
	return r.client.Collection(colAppointments)
}

func (r *appointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	appt.CreatedAt, appt.UpdatedAt = time.Time{}, time.Time{}
	ref := r.col().NewDoc()
	if _, err := ref.Create(ctx, appt); err != nil {
		return mapErr(err)
	}
	stored, err := get(ctx, ref, setAppointmentID)
	if err != nil {
		return err
	}
	*appt = *stored
	return nil
}

func (r *appointmentRepo) Get(ctx context.Context, id string) (*models.Appointment, error) {
	return get(ctx, r.col().Doc(id), setAppointmentID)
}

func (r *appointmentRepo) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	snaps, err := r.col().
		Where("userId", "==", userID).
		OrderBy("date", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, mapErr(err)
	}
	return decodeAll(snaps, setAppointmentID)
}

func (r *appointmentRepo) ListUpcoming(ctx context.Context, userID string, from time.Time, limit int) ([]models.Appointment, error) {
	q := r.col().
		Where("userId", "==", userID).
		Where("date", ">=", from).
		OrderBy("date", firestore.Asc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, mapErr(err)
	}
	return decodeAll(snaps, setAppointmentID)
}

func (r *appointmentRepo) Update(ctx context.Context, appt *models.Appointment) error {
	ref := r.col().Doc(appt.ID)
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "title", Value: appt.Title},
		{Path: "description", Value: appt.Description},
		{Path: "date", Value: appt.Date},
		{Path: "duration", Value: appt.Duration},
		{Path: "coach", Value: appt.Coach},
		{Path: "status", Value: appt.Status},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return mapErr(err)
	}
	stored, err := get(ctx, ref, setAppointmentID)
	if err != nil {
		return err
	}
	*appt = *stored
	return nil
}

func (r *appointmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col().Doc(id).Delete(ctx, firestore.Exists)
	return mapErr(err)
}
