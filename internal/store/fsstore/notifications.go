package fsstore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/arnold/coachly-api/internal/models"
)

type notificationRepo struct {
	client *firestore.Client
}

func setNotificationID(n *models.Notification, id string) { n.ID = id }

func (r *notificationRepo) col() *firestore.CollectionRef {
	return r.client.Collection(colNotifications)
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	n.CreatedAt = time.Time{}
	ref := r.col().NewDoc()
	if _, err := ref.Create(ctx, n); err != nil {
		return mapErr(err)
	}
	n.ID = ref.ID
	return nil
}

func (r *notificationRepo) List(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	snaps, err := r.col().
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Offset(offset).
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, mapErr(err)
	}
	return decodeAll(snaps, setNotificationID)
}

func (r *notificationRepo) Counts(ctx context.Context, userID string) (int64, int64, error) {
	mine := r.col().Where("userId", "==", userID)
	total, err := count(ctx, mine)
	if err != nil {
		return 0, 0, err
	}
	unread, err := count(ctx, mine.Where("read", "==", false))
	if err != nil {
		return 0, 0, err
	}
	return total, unread, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	n, err := get(ctx, r.col().Doc(id), setNotificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return models.ErrNotFound
	}
	_, err = r.col().Doc(id).Update(ctx, []firestore.Update{{Path: "read", Value: true}})
	return mapErr(err)
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	snaps, err := r.col().
		Where("userId", "==", userID).
		Where("read", "==", false).
		Documents(ctx).GetAll()
	if err != nil {
		return mapErr(err)
	}
	if len(snaps) == 0 {
		return nil
	}
	bw := r.client.BulkWriter(ctx)
	for _, snap := range snaps {
		if _, err := bw.Update(snap.Ref, []firestore.Update{{Path: "read", Value: true}}); err != nil {
			bw.End()
			return mapErr(err)
		}
	}
	bw.End()
	return nil
}
