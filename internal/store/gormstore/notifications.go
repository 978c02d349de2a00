package gormstore

import (
	"context"

	"github.com/arnold/coachly-api/internal/models"
	"gorm.io/gorm"
)

type notificationRepo struct {
	db *gorm.DB
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return mapErr(r.db.WithContext(ctx).Create(n).Error)
}

func (r *notificationRepo) List(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return list, nil
}

func (r *notificationRepo) Counts(ctx context.Context, userID string) (int64, int64, error) {
	var total, unread int64
	q := r.db.WithContext(ctx).Model(&models.Notification{})
	if err := q.Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, 0, mapErr(err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&unread).Error; err != nil {
		return 0, 0, mapErr(err)
	}
	return total, unread, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	return affected(res)
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	return mapErr(r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error)
}
