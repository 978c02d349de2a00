package services

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Pusher delivers a device push notification.
type Pusher interface {
	Push(ctx context.Context, deviceToken, title, body string, data map[string]string) error
}

// FCMPusher sends through Firebase Cloud Messaging.
type FCMPusher struct {
	client *messaging.Client
}

// NewFCMPusher returns nil without error when no service account is configured,
// so push stays disabled in development.
func NewFCMPusher(ctx context.Context, serviceAccountPath string, log *zap.Logger) (*FCMPusher, error) {
	if serviceAccountPath == "" {
		log.Info("fcm: no service account configured, push notifications disabled")
		return nil, nil
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("fcm: push notifications enabled")
	return &FCMPusher{client: client}, nil
}

func NewFCMPusherFromApp(ctx context.Context, app *firebase.App) (*FCMPusher, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &FCMPusher{client: client}, nil
}

func (p *FCMPusher) Push(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	_, err := p.client.Send(ctx, msg)
	return err
}
