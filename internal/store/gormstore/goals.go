package gormstore

import (
	"context"

	"github.com/arnold/coachly-api/internal/models"
	"gorm.io/gorm"
)

type goalRepo struct {
	db *gorm.DB
}

func (r *goalRepo) Create(ctx context.Context, goal *models.Goal) error {
	return mapErr(r.db.WithContext(ctx).Create(goal).Error)
}

func (r *goalRepo) Get(ctx context.Context, id string) (*models.Goal, error) {
	var goal models.Goal
	if err := r.db.WithContext(ctx).First(&goal, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &goal, nil
}

func (r *goalRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.Goal, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var goals []models.Goal
	if err := q.Find(&goals).Error; err != nil {
		return nil, mapErr(err)
	}
	return goals, nil
}

// Update rewrites every mutable column; the owner and creation time never change.
func (r *goalRepo) Update(ctx context.Context, goal *models.Goal) error {
	res := r.db.WithContext(ctx).Model(goal).Select("*").Omit("id", "user_id", "created_at").Updates(goal)
	return affected(res)
}

func (r *goalRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Goal{}, "id = ?", id))
}
