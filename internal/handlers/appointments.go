package handlers

import (
	"github.com/arnold/coachly-api/internal/middleware"
	"github.com/arnold/coachly-api/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ListAppointments(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	list, err := h.appointments.List(ctx, middleware.GetIdentity(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"appointments": list})
}

func (h *Handler) GetAppointment(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	appt, err := h.appointments.Get(ctx, middleware.GetIdentity(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(appt)
}

func (h *Handler) CreateAppointment(c *fiber.Ctx) error {
	var req models.AppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	appt, err := h.appointments.Create(ctx, middleware.GetIdentity(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appt)
}

func (h *Handler) UpdateAppointment(c *fiber.Ctx) error {
	var req models.AppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	appt, err := h.appointments.Update(ctx, middleware.GetIdentity(c), c.Params("id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(appt)
}

func (h *Handler) CancelAppointment(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.appointments.Cancel(ctx, middleware.GetIdentity(c), c.Params("id"), c.QueryBool("confirm")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
