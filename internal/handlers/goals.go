package handlers

import (
	"github.com/arnold/coachly-api/internal/middleware"
	"github.com/arnold/coachly-api/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ListGoals(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	list, err := h.goals.List(ctx, middleware.GetIdentity(c), c.Query("filter", models.GoalFilterAll))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) GetGoal(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	goal, err := h.goals.Get(ctx, middleware.GetIdentity(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(goal)
}

func (h *Handler) CreateGoal(c *fiber.Ctx) error {
	var in models.GoalInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	goal, err := h.goals.Create(ctx, middleware.GetIdentity(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(goal)
}

func (h *Handler) UpdateGoal(c *fiber.Ctx) error {
	var in models.GoalInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	goal, err := h.goals.Update(ctx, middleware.GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(goal)
}

// DeleteGoal needs ?confirm=true.
func (h *Handler) DeleteGoal(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.goals.Delete(ctx, middleware.GetIdentity(c), c.Params("id"), c.QueryBool("confirm")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) ToggleTask(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "Invalid task index")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	goal, err := h.goals.ToggleTask(ctx, middleware.GetIdentity(c), c.Params("id"), index)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(goal)
}

func (h *Handler) ToggleMilestone(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "Invalid milestone index")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	goal, err := h.goals.ToggleMilestone(ctx, middleware.GetIdentity(c), c.Params("id"), index)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(goal)
}

func (h *Handler) SetGoalCompleted(c *fiber.Ctx) error {
	var req models.ToggleCompletedRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	goal, err := h.goals.SetCompleted(ctx, middleware.GetIdentity(c), c.Params("id"), req.Completed)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(goal)
}

func (h *Handler) GoalTemplates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"templates":  h.goals.Templates(),
		"categories": models.Categories,
		"reminders":  models.Reminders,
	})
}

// GoalWizard applies one wizard action to the state sent by the client.
func (h *Handler) GoalWizard(c *fiber.Ctx) error {
	var req models.WizardRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	res, err := h.goals.Wizard(ctx, middleware.GetIdentity(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	if res.Goal != nil {
		return c.Status(fiber.StatusCreated).JSON(res)
	}
	return c.JSON(res)
}
