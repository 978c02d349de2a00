package gormstore

import (
	"context"

	"github.com/arnold/coachly-api/internal/models"
	"gorm.io/gorm"
)

type journalRepo struct {
	db *gorm.DB
}

func (r *journalRepo) Create(ctx context.Context, entry *models.JournalEntry) error {
	return mapErr(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *journalRepo) Get(ctx context.Context, id string) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &entry, nil
}

func (r *journalRepo) ListByUser(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	var list []models.JournalEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return list, nil
}

func (r *journalRepo) Count(ctx context.Context, userID string) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.JournalEntry{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, mapErr(err)
	}
	return int(n), nil
}

func (r *journalRepo) Update(ctx context.Context, entry *models.JournalEntry) error {
	res := r.db.WithContext(ctx).Model(entry).
		Select("title", "content", "mood", "updated_at").
		Updates(entry)
	return affected(res)
}

func (r *journalRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Delete(&models.JournalEntry{}, "id = ?", id))
}
