// Package store declares the persistence ports. Every list call is scoped to
// one owner; implementations live in gormstore and fsstore.
package store

import (
	"context"
	"time"

	"github.com/arnold/coachly-api/internal/models"
)

type GoalRepository interface {
	Create(ctx context.Context, goal *models.Goal) error
	Get(ctx context.Context, id string) (*models.Goal, error)
	// ListByUser returns goals newest first. Limit 0 means no limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Goal, error)
	Update(ctx context.Context, goal *models.Goal) error
	Delete(ctx context.Context, id string) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	Get(ctx context.Context, id string) (*models.Appointment, error)
	// ListByUser returns appointments ordered by date ascending.
	ListByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	// ListUpcoming returns appointments at or after from, soonest first.
	ListUpcoming(ctx context.Context, userID string, from time.Time, limit int) ([]models.Appointment, error)
	Update(ctx context.Context, appt *models.Appointment) error
	Delete(ctx context.Context, id string) error
}

type JournalRepository interface {
	Create(ctx context.Context, entry *models.JournalEntry) error
	Get(ctx context.Context, id string) (*models.JournalEntry, error)
	// ListByUser returns entries newest first.
	ListByUser(ctx context.Context, userID string) ([]models.JournalEntry, error)
	Count(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, entry *models.JournalEntry) error
	Delete(ctx context.Context, id string) error
}

type ProfileRepository interface {
	Get(ctx context.Context, uid string) (*models.Profile, error)
	// CreateIfAbsent writes the profile only when none exists for its UID.
	// It reports whether a record was written.
	CreateIfAbsent(ctx context.Context, profile *models.Profile) (bool, error)
	Update(ctx context.Context, profile *models.Profile) error
	SetDeviceToken(ctx context.Context, uid, token string) error
}

type CredentialRepository interface {
	// Create fails with models.ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, cred *models.Credential) error
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)
	GetByUID(ctx context.Context, uid string) (*models.Credential, error)
	Update(ctx context.Context, cred *models.Credential) error
}

type TokenRepository interface {
	SaveReset(ctx context.Context, reset *models.PasswordReset) error
	// TakeReset returns and deletes the reset with the given hash.
	TakeReset(ctx context.Context, tokenHash string) (*models.PasswordReset, error)
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	Counts(ctx context.Context, userID string) (total, unread int64, err error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Goals         GoalRepository
	Appointments  AppointmentRepository
	Journals      JournalRepository
	Profiles      ProfileRepository
	Credentials   CredentialRepository
	Tokens        TokenRepository
	Notifications NotificationRepository

	Close func() error
}
