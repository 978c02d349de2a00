package handlers

import (
	"github.com/arnold/coachly-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

// GetNotifications returns paginated notifications for the current user
func (h *Handler) GetNotifications(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	page, err := h.notifications.List(ctx, middleware.GetIdentity(c), c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(page)
}

func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.notifications.MarkRead(ctx, middleware.GetIdentity(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) MarkAllRead(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.notifications.MarkAllRead(ctx, middleware.GetIdentity(c)); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
