package services

import (
	"context"
	"fmt"
	"html"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Mailer sends account emails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, link string) error
}

// ResendMailer sends through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
	log    *zap.Logger
}

func NewResendMailer(apiKey, from string, log *zap.Logger) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from, log: log}
}

func (m *ResendMailer) SendPasswordReset(ctx context.Context, to, name, link string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: "Reset your Coachly password",
		Html:    resetEmailHTML(name, link),
	}
	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		m.log.Error("resend send failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("resend send failed: %w", err)
	}
	m.log.Info("password reset email sent", zap.String("message_id", sent.Id))
	return nil
}

// LogMailer writes the reset link to the log instead of sending it.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, to, _, link string) error {
	m.log.Info("password reset requested (no mail provider configured)", zap.String("to", to), zap.String("link", link))
	return nil
}

func resetEmailHTML(name, link string) string {
	greeting := "Hi,"
	if name != "" {
		greeting = "Hi " + html.EscapeString(name) + ","
	}
	return fmt.Sprintf(`<p>%s</p>
<p>We received a request to reset your password. The link below is valid for one hour and can be used once.</p>
<p><a href="%s">Reset password</a></p>
<p>If you did not ask for this, you can ignore this email.</p>`, greeting, html.EscapeString(link))
}
