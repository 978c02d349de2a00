package handlers

import (
	"github.com/arnold/coachly-api/internal/middleware"
	"github.com/arnold/coachly-api/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ListJournals(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	entries, err := h.journals.List(ctx, middleware.GetIdentity(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"entries": entries, "moods": models.Moods})
}

func (h *Handler) GetJournal(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	entry, err := h.journals.Get(ctx, middleware.GetIdentity(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(models.NewJournalView(*entry))
}

func (h *Handler) CreateJournal(c *fiber.Ctx) error {
	var in models.JournalInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	entry, err := h.journals.Create(ctx, middleware.GetIdentity(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewJournalView(*entry))
}

func (h *Handler) UpdateJournal(c *fiber.Ctx) error {
	var in models.JournalInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	entry, err := h.journals.Update(ctx, middleware.GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(models.NewJournalView(*entry))
}

func (h *Handler) DeleteJournal(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.journals.Delete(ctx, middleware.GetIdentity(c), c.Params("id"), c.QueryBool("confirm")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
