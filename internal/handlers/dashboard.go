package handlers

import (
	"github.com/arnold/coachly-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	d, err := h.dashboard.Get(ctx, middleware.GetIdentity(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(d)
}
