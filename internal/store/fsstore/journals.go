package fsstore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/arnold/coachly-api/internal/models"
)

type journalRepo struct {
	client *firestore.Client
}

func setJournalID(j *models.JournalEntry, id string) { j.ID = id }

func (r *journalRepo) col() *firestore.CollectionRef {
	return r.client.Collection(colJournals)
}

func (r *journalRepo) Create(ctx context.Context, entry *models.JournalEntry) error {
	entry.CreatedAt, entry.UpdatedAt = time.Time{}, nil
	ref := r.col().NewDoc()
	if _, err := ref.Create(ctx, entry); err != nil {
		return mapErr(err)
	}
	stored, err := get(ctx, ref, setJournalID)
	if err != nil {
		return err
	}
	*entry = *stored
	return nil
}

func (r *journalRepo) Get(ctx context.Context, id string) (*models.JournalEntry, error) {
	return get(ctx, r.col().Doc(id), setJournalID)
}

func (r *journalRepo) ListByUser(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	snaps, err := r.col().
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, mapErr(err)
	}
	return decodeAll(snaps, setJournalID)
}

func (r *journalRepo) Count(ctx context.Context, userID string) (int, error) {
	n, err := count(ctx, r.col().Where("userId", "==", userID))
	return int(n), err
}

func (r *journalRepo) Update(ctx context.Context, entry *models.JournalEntry) error {
	_, err := r.col().Doc(entry.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: entry.Title},
		{Path: "content", Value: entry.Content},
		{Path: "mood", Value: entry.Mood},
		{Path: "updatedAt", Value: entry.UpdatedAt},
	})
	return mapErr(err)
}

func (r *journalRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col().Doc(id).Delete(ctx, firestore.Exists)
	return mapErr(err)
}
