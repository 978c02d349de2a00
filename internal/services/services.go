// Package services holds the use cases behind the HTTP handlers. Every
// operation takes the caller's identity explicitly and checks ownership
// before returning or touching a record.
package services

import (
	"time"

	"github.com/arnold/coachly-api/internal/models"
	"go.uber.org/zap"
)

// Publisher delivers change events to a user's live connections.
type Publisher interface {
	Publish(userID string, event models.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, models.Event) {}

// Clock returns the current time.
type Clock func() time.Time

// Options carries the dependencies shared by every service.
type Options struct {
	Logger   *zap.Logger
	Events   Publisher
	Now      Clock
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Events == nil {
		o.Events = nopPublisher{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

// owned returns ErrForbidden when a record belongs to someone else.
func owned(ownerID string, id models.Identity) error {
	if id.UID == "" {
		return models.ErrUnauthorized
	}
	if ownerID != id.UID {
		return models.ErrForbidden
	}
	return nil
}

func requireIdentity(id models.Identity) error {
	if id.UID == "" {
		return models.ErrUnauthorized
	}
	return nil
}

func confirmed(ok bool) error {
	if !ok {
		return models.ErrConfirmationRequired
	}
	return nil
}
