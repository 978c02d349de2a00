// Package handlers exposes the services over HTTP and WebSocket.
package handlers

import (
	"context"
	"time"

	"github.com/arnold/coachly-api/internal/middleware"
	"github.com/arnold/coachly-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Deps struct {
	Accounts      *services.AccountService
	Goals         *services.GoalService
	Appointments  *services.AppointmentService
	Journals      *services.JournalService
	Dashboard     *services.DashboardService
	Notifications *services.Notifier
	JWT           *middleware.JWT
	Hub           *Hub
	Logger        *zap.Logger

	RequestTimeout time.Duration
	UploadDir      string
	SecureCookies  bool
}

type Handler struct {
	accounts      *services.AccountService
	goals         *services.GoalService
	appointments  *services.AppointmentService
	journals      *services.JournalService
	dashboard     *services.DashboardService
	notifications *services.Notifier
	jwt           *middleware.JWT
	hub           *Hub
	log           *zap.Logger

	timeout       time.Duration
	uploadDir     string
	secureCookies bool
}

func New(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 10 * time.Second
	}
	if d.UploadDir == "" {
		d.UploadDir = "uploads"
	}
	if d.Hub == nil {
		d.Hub = NewHub(d.Logger)
	}
	return &Handler{
		accounts:      d.Accounts,
		goals:         d.Goals,
		appointments:  d.Appointments,
		journals:      d.Journals,
		dashboard:     d.Dashboard,
		notifications: d.Notifications,
		jwt:           d.JWT,
		hub:           d.Hub,
		log:           d.Logger,
		timeout:       d.RequestTimeout,
		uploadDir:     d.UploadDir,
		secureCookies: d.SecureCookies,
	}
}

// ctx bounds a request's service calls by the configured timeout.
func (h *Handler) ctx(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.timeout)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "time": time.Now().UTC()})
}
