// Package fsstore implements the store ports on Cloud Firestore.
package fsstore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/arnold/coachly-api/internal/models"
	"github.com/arnold/coachly-api/internal/store"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection names
const (
	colUsers         = "users"
	colGoals         = "goals"
	colAppointments  = "appointments"
	colJournals      = "journals"
	colCredentials   = "credentials"
	colResets        = "password_resets"
	colRevoked       = "revoked_tokens"
	colNotifications = "notifications"
)

// NewClient connects to projectID. With FIRESTORE_EMULATOR_HOST set the
// client talks to the emulator and credentials are ignored.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	return firestore.NewClient(ctx, projectID, opts...)
}

func New(client *firestore.Client) *store.Store {
	return &store.Store{
		Goals:         &goalRepo{client: client},
		Appointments:  &appointmentRepo{client: client},
		Journals:      &journalRepo{client: client},
		Profiles:      &profileRepo{client: client},
		Credentials:   &credentialRepo{client: client},
		Tokens:        &tokenRepo{client: client},
		Notifications: &notificationRepo{client: client},
		Close:         client.Close,
	}
}

func mapErr(err error) error {
	var dErr *models.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &dErr):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return models.WrapError(models.CodeUnavailable, "request cancelled", err)
	}
	switch status.Code(err) {
	case codes.NotFound:
		return models.ErrNotFound
	case codes.AlreadyExists:
		return models.ErrAlreadyExists
	case codes.PermissionDenied:
		return models.WrapError(models.CodeForbidden, "document store denied access", err)
	default:
		return models.WrapError(models.CodeUnavailable, "document store error", err)
	}
}

// decodeAll maps query snapshots to T, copying document IDs through setID.
func decodeAll[T any](snaps []*firestore.DocumentSnapshot, setID func(*T, string)) ([]T, error) {
	out := make([]T, 0, len(snaps))
	for _, snap := range snaps {
		var v T
		if err := snap.DataTo(&v); err != nil {
			return nil, models.WrapError(models.CodeInternal, "decode document", err)
		}
		setID(&v, snap.Ref.ID)
		out = append(out, v)
	}
	return out, nil
}

func get[T any](ctx context.Context, ref *firestore.DocumentRef, setID func(*T, string)) (*T, error) {
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	var v T
	if err := snap.DataTo(&v); err != nil {
		return nil, models.WrapError(models.CodeInternal, "decode document", err)
	}
	setID(&v, ref.ID)
	return &v, nil
}

func count(ctx context.Context, q firestore.Query) (int64, error) {
	res, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, mapErr(err)
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, models.NewError(models.CodeInternal, "unexpected count result")
	}
	return v.GetIntegerValue(), nil
}
