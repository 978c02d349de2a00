package fsstore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/arnold/coachly-api/internal/models"
)

type profileRepo struct {
	client *firestore.Client
}

func setProfileID(p *models.Profile, id string) { p.UID = id }

func (r *profileRepo) doc(uid string) *firestore.DocumentRef {
	return r.client.Collection(colUsers).Doc(uid)
}

func (r *profileRepo) Get(ctx context.Context, uid string) (*models.Profile, error) {
	return get(ctx, r.doc(uid), setProfileID)
}

// CreateIfAbsent uses a create precondition, so a second call never touches createdAt.
func (r *profileRepo) CreateIfAbsent(ctx context.Context, profile *models.Profile) (bool, error) {
	profile.CreatedAt, profile.UpdatedAt = time.Time{}, time.Time{}
	_, err := r.doc(profile.UID).Create(ctx, profile)
	if err != nil {
		err = mapErr(err)
		if models.HasCode(err, models.CodeConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *profileRepo) Update(ctx context.Context, profile *models.Profile) error {
	_, err := r.doc(profile.UID).Update(ctx, []firestore.Update{
		{Path: "firstName", Value: profile.FirstName},
		{Path: "lastName", Value: profile.LastName},
		{Path: "displayName", Value: profile.DisplayName},
		{Path: "photoURL", Value: profile.PhotoURL},
		{Path: "plan", Value: profile.Plan},
		{Path: "streak", Value: profile.Streak},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	return mapErr(err)
}

func (r *profileRepo) SetDeviceToken(ctx context.Context, uid, token string) error {
	_, err := r.doc(uid).Update(ctx, []firestore.Update{
		{Path: "deviceToken", Value: token},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	return mapErr(err)
}

// credentialRepo keys documents by normalized email so the create
// precondition enforces uniqueness.
type credentialRepo struct {
	client *firestore.Client
}

func setCredentialID(c *models.Credential, id string) { c.Email = id }

func (r *credentialRepo) col() *firestore.CollectionRef {
	return r.client.Collection(colCredentials)
}

func (r *credentialRepo) Create(ctx context.Context, cred *models.Credential) error {
	cred.CreatedAt, cred.UpdatedAt = time.Time{}, time.Time{}
	_, err := r.col().Doc(cred.Email).Create(ctx, cred)
	return mapErr(err)
}

func (r *credentialRepo) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	return get(ctx, r.col().Doc(email), setCredentialID)
}

func (r *credentialRepo) GetByUID(ctx context.Context, uid string) (*models.Credential, error) {
	snaps, err := r.col().Where("uid", "==", uid).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, mapErr(err)
	}
	if len(snaps) == 0 {
		return nil, models.ErrNotFound
	}
	creds, err := decodeAll(snaps, setCredentialID)
	if err != nil {
		return nil, err
	}
	return &creds[0], nil
}

func (r *credentialRepo) Update(ctx context.Context, cred *models.Credential) error {
	_, err := r.col().Doc(cred.Email).Update(ctx, []firestore.Update{
		{Path: "passwordHash", Value: cred.PasswordHash},
		{Path: "disabled", Value: cred.Disabled},
		{Path: "failedLogins", Value: cred.FailedLogins},
		{Path: "lockedUntil", Value: cred.LockedUntil},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	return mapErr(err)
}
