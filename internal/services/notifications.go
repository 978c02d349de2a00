package services

import (
	"context"
	"time"

	"github.com/arnold/coachly-api/internal/models"
	"github.com/arnold/coachly-api/internal/store"
	"go.uber.org/zap"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 50
	pushTimeout              = 10 * time.Second
)

// Notifier records in-app notifications and fans them out to open sockets
// and the user's device.
type Notifier struct {
	repo     store.NotificationRepository
	profiles store.ProfileRepository
	pusher   Pusher
	opts     Options

	// async pushes off the request path; tests turn it off.
	async bool
}

func NewNotifier(repo store.NotificationRepository, profiles store.ProfileRepository, pusher Pusher, opts Options) *Notifier {
	return &Notifier{repo: repo, profiles: profiles, pusher: pusher, opts: opts.withDefaults(), async: true}
}

// Notify never fails the calling operation; errors are logged.
func (n *Notifier) Notify(ctx context.Context, uid, kind, title, body string, data map[string]string) {
	notif := models.Notification{UserID: uid, Type: kind, Title: title, Body: body, Data: data}
	if err := n.repo.Create(ctx, &notif); err != nil {
		n.opts.Logger.Warn("store notification failed", zap.String("user_id", uid), zap.String("type", kind), zap.Error(err))
	} else {
		n.opts.Events.Publish(uid, models.Event{Type: models.EventNotification, ID: notif.ID, Data: notif})
	}

	if n.pusher == nil {
		return
	}
	payload := map[string]string{"type": kind}
	for k, v := range data {
		payload[k] = v
	}
	if !n.async {
		n.push(ctx, uid, title, body, payload)
		return
	}
	go func() {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
		defer cancel()
		n.push(pctx, uid, title, body, payload)
	}()
}

func (n *Notifier) push(ctx context.Context, uid, title, body string, data map[string]string) {
	profile, err := n.profiles.Get(ctx, uid)
	if err != nil || profile.DeviceToken == "" {
		return
	}
	if err := n.pusher.Push(ctx, profile.DeviceToken, title, body, data); err != nil {
		n.opts.Logger.Warn("fcm send failed", zap.String("user_id", uid), zap.Error(err))
	}
}

func (n *Notifier) List(ctx context.Context, id models.Identity, page, limit int) (models.NotificationPage, error) {
	if err := requireIdentity(id); err != nil {
		return models.NotificationPage{}, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxNotificationLimit {
		limit = defaultNotificationLimit
	}

	list, err := n.repo.List(ctx, id.UID, limit, (page-1)*limit)
	if err != nil {
		return models.NotificationPage{}, err
	}
	total, unread, err := n.repo.Counts(ctx, id.UID)
	if err != nil {
		return models.NotificationPage{}, err
	}
	if list == nil {
		list = []models.Notification{}
	}
	return models.NotificationPage{Notifications: list, Total: total, Unread: unread, Page: page, Limit: limit}, nil
}

func (n *Notifier) MarkRead(ctx context.Context, id models.Identity, notifID string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	return n.repo.MarkRead(ctx, id.UID, notifID)
}

func (n *Notifier) MarkAllRead(ctx context.Context, id models.Identity) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	return n.repo.MarkAllRead(ctx, id.UID)
}
