package gormstore

import (
	"context"

	"github.com/arnold/coachly-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileRepo struct {
	db *gorm.DB
}

func (r *profileRepo) Get(ctx context.Context, uid string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).First(&p, "uid = ?", uid).Error; err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

// CreateIfAbsent relies on the primary key so concurrent first sign-ins write once.
func (r *profileRepo) CreateIfAbsent(ctx context.Context, profile *models.Profile) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "uid"}}, DoNothing: true}).
		Create(profile)
	if res.Error != nil {
		return false, mapErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *profileRepo) Update(ctx context.Context, profile *models.Profile) error {
	res := r.db.WithContext(ctx).Model(profile).
		Select("first_name", "last_name", "display_name", "photo_url", "plan", "streak", "updated_at").
		Updates(profile)
	return affected(res)
}

func (r *profileRepo) SetDeviceToken(ctx context.Context, uid, token string) error {
	res := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("uid = ?", uid).
		Update("device_token", token)
	return affected(res)
}

type credentialRepo struct {
	db *gorm.DB
}

func (r *credentialRepo) Create(ctx context.Context, cred *models.Credential) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Credential{}).Where("email = ?", cred.Email).Count(&n).Error; err != nil {
			return mapErr(err)
		}
		if n > 0 {
			return models.ErrAlreadyExists
		}
		return mapErr(tx.Create(cred).Error)
	})
}

func (r *credentialRepo) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var cred models.Credential
	if err := r.db.WithContext(ctx).First(&cred, "email = ?", email).Error; err != nil {
		return nil, mapErr(err)
	}
	return &cred, nil
}

func (r *credentialRepo) GetByUID(ctx context.Context, uid string) (*models.Credential, error) {
	var cred models.Credential
	if err := r.db.WithContext(ctx).First(&cred, "uid = ?", uid).Error; err != nil {
		return nil, mapErr(err)
	}
	return &cred, nil
}

func (r *credentialRepo) Update(ctx context.Context, cred *models.Credential) error {
	res := r.db.WithContext(ctx).Model(cred).
		Select("password_hash", "disabled", "failed_logins", "locked_until", "updated_at").
		Updates(cred)
	return affected(res)
}
