package fsstore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/arnold/coachly-api/internal/models"
)

type tokenRepo struct {
	client *firestore.Client
}

func (r *tokenRepo) SaveReset(ctx context.Context, reset *models.PasswordReset) error {
	_, err := r.client.Collection(colResets).Doc(reset.TokenHash).Create(ctx, reset)
	return mapErr(err)
}

// TakeReset reads and deletes in one transaction so a token is redeemed once.
func (r *tokenRepo) TakeReset(ctx context.Context, tokenHash string) (*models.PasswordReset, error) {
	ref := r.client.Collection(colResets).Doc(tokenHash)
	var reset models.PasswordReset
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if err := snap.DataTo(&reset); err != nil {
			return err
		}
		return tx.Delete(ref)
	})
	if err != nil {
		return nil, mapErr(err)
	}
	reset.TokenHash = tokenHash
	return &reset, nil
}

func (r *tokenRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.client.Collection(colRevoked).Doc(jti).Set(ctx, models.RevokedToken{JTI: jti, ExpiresAt: expiresAt})
	return mapErr(err)
}

func (r *tokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := r.client.Collection(colRevoked).Doc(jti).Get(ctx)
	if err == nil {
		return true, nil
	}
	err = mapErr(err)
	if models.HasCode(err, models.CodeNotFound) {
		return false, nil
	}
	return false, err
}
