package gormstore

import (
	"context"
	"time"

	"github.com/arnold/coachly-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tokenRepo struct {
	db *gorm.DB
}

func (r *tokenRepo) SaveReset(ctx context.Context, reset *models.PasswordReset) error {
	return mapErr(r.db.WithContext(ctx).Create(reset).Error)
}

func (r *tokenRepo) TakeReset(ctx context.Context, tokenHash string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reset, "token_hash = ?", tokenHash).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&models.PasswordReset{}, "token_hash = ?", tokenHash))
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return &reset, nil
}

func (r *tokenRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	tx := r.db.WithContext(ctx)
	// expired revocations no longer matter
	if err := tx.Where("expires_at < ?", time.Now()).Delete(&models.RevokedToken{}).Error; err != nil {
		return mapErr(err)
	}
	return mapErr(tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.RevokedToken{JTI: jti, ExpiresAt: expiresAt}).Error)
}

func (r *tokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.RevokedToken{}).Where("jti = ?", jti).Count(&n).Error; err != nil {
		return false, mapErr(err)
	}
	return n > 0, nil
}
