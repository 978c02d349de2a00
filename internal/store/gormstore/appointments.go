package gormstore

import (
	"context"
	"time"

	"github.com/arnold/coachly-api/internal/models"
	"gorm.io/gorm"
)

type appointmentRepo struct {
	db *gorm.DB
}

func (r *appointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	return mapErr(r.db.WithContext(ctx).Create(appt).Error)
}

func (r *appointmentRepo) Get(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.db.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &appt, nil
}

func (r *appointmentRepo) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	var list []models.Appointment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&list).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return list, nil
}

func (r *appointmentRepo) ListUpcoming(ctx context.Context, userID string, from time.Time, limit int) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, from).
		Order("date ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var list []models.Appointment
	if err := q.Find(&list).Error; err != nil {
		return nil, mapErr(err)
	}
	return list, nil
}

func (r *appointmentRepo) Update(ctx context.Context, appt *models.Appointment) error {
	res := r.db.WithContext(ctx).Model(appt).Select("*").Omit("id", "user_id", "created_at").Updates(appt)
	return affected(res)
}

func (r *appointmentRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id))
}
