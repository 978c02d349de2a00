package routes

import (
	"github.com/arnold/coachly-api/internal/handlers"
	"github.com/arnold/coachly-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Options struct {
	StaticDir string
	UploadDir string
}

func Setup(app *fiber.App, h *handlers.Handler, jwt *middleware.JWT, opts Options) {
	app.Get("/healthz", h.Health)

	api := app.Group("/api")
	api.Get("/plans", h.Plans)

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/social", h.SocialLogin)
	auth.Post("/password-reset", h.RequestPasswordReset)
	auth.Post("/password-reset/confirm", h.ConfirmPasswordReset)
	auth.Post("/logout", jwt.Protected(), h.Logout)

	protected := api.Group("/", jwt.Protected())

	protected.Get("/me", h.GetMe)
	protected.Put("/me", h.UpdateMe)
	protected.Post("/me/photo", h.UploadPhoto)

	// Device token for push notifications
	protected.Post("/device-token", h.RegisterDeviceToken)

	protected.Get("/dashboard", h.Dashboard)

	goals := protected.Group("/goals")
	goals.Get("/", h.ListGoals)
	goals.Post("/", h.CreateGoal)
	goals.Get("/templates", h.GoalTemplates)
	goals.Post("/wizard", h.GoalWizard)
	goals.Get("/:id", h.GetGoal)
	goals.Put("/:id", h.UpdateGoal)
	goals.Delete("/:id", h.DeleteGoal)
	goals.Post("/:id/tasks/:index/toggle", h.ToggleTask)
	goals.Post("/:id/milestones/:index/toggle", h.ToggleMilestone)
	goals.Post("/:id/complete", h.SetGoalCompleted)

	appointments := protected.Group("/appointments")
	appointments.Get("/", h.ListAppointments)
	appointments.Post("/", h.CreateAppointment)
	appointments.Get("/:id", h.GetAppointment)
	appointments.Put("/:id", h.UpdateAppointment)
	appointments.Delete("/:id", h.CancelAppointment)

	journals := protected.Group("/journals")
	journals.Get("/", h.ListJournals)
	journals.Post("/", h.CreateJournal)
	journals.Get("/:id", h.GetJournal)
	journals.Put("/:id", h.UpdateJournal)
	journals.Delete("/:id", h.DeleteJournal)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", h.GetNotifications)
	notifications.Post("/read-all", h.MarkAllRead)
	notifications.Post("/:id/read", h.MarkNotificationRead)

	// WebSocket for session and document change events
	app.Use("/ws", h.EventsUpgrade())
	app.Get("/ws/events", websocket.New(h.Events))

	if opts.UploadDir != "" {
		app.Static("/uploads", opts.UploadDir)
	}
	if opts.StaticDir != "" {
		app.Use("/app", jwt.Gate("/login"))
		app.Static("/", opts.StaticDir)
	}
}
