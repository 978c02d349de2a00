// Package gormstore implements the store ports on GORM, backed by SQLite
// or PostgreSQL.
package gormstore

import (
	"context"
	"errors"
	"strings"

	"github.com/arnold/coachly-api/internal/models"
	"github.com/arnold/coachly-api/internal/store"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL when url starts with postgres, otherwise to a SQLite file.
func Open(url string, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(url, "postgres") {
		dialector = postgres.Open(url)
	} else {
		dialector = sqlite.Open(url)
	}

	mode := logger.Warn
	if debug {
		mode = logger.Info
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(mode),
		TranslateError: true,
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Credential{},
		&models.PasswordReset{},
		&models.RevokedToken{},
		&models.Goal{},
		&models.Appointment{},
		&models.JournalEntry{},
		&models.Notification{},
	)
}

// New wires every repository on db.
func New(db *gorm.DB) *store.Store {
	return &store.Store{
		Goals:         &goalRepo{db: db},
		Appointments:  &appointmentRepo{db: db},
		Journals:      &journalRepo{db: db},
		Profiles:      &profileRepo{db: db},
		Credentials:   &credentialRepo{db: db},
		Tokens:        &tokenRepo{db: db},
		Notifications: &notificationRepo{db: db},
		Close: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

func mapErr(err error) error {
	var dErr *models.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &dErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.ErrAlreadyExists
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return models.WrapError(models.CodeUnavailable, "request cancelled", err)
	default:
		return models.WrapError(models.CodeUnavailable, "database error", err)
	}
}

// affected turns a zero-row write into models.ErrNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
