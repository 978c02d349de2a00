package handlers

import (
	"time"

	"github.com/arnold/coachly-api/internal/middleware"
	"github.com/arnold/coachly-api/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	resp, err := h.accounts.Register(ctx, req)
	if err != nil {
		return h.fail(c, err)
	}
	h.setSession(c, resp.Token)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	resp, err := h.accounts.Login(ctx, req)
	if err != nil {
		return h.fail(c, err)
	}
	h.setSession(c, resp.Token)
	return c.JSON(resp)
}

// SocialLogin accepts a Firebase, Google or Facebook token.
func (h *Handler) SocialLogin(c *fiber.Ctx) error {
	var req models.SocialAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	resp, err := h.accounts.Social(ctx, req)
	if err != nil {
		return h.fail(c, err)
	}
	h.setSession(c, resp.Token)
	status := fiber.StatusOK
	if resp.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(resp)
}

func (h *Handler) RequestPasswordReset(c *fiber.Ctx) error {
	var req models.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.accounts.RequestPasswordReset(ctx, req.Email); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "If an account exists for this email, a reset link is on its way.",
	})
}

func (h *Handler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req models.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.accounts.ConfirmPasswordReset(ctx, req); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated. You can now sign in."})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	var (
		jti string
		exp time.Time
	)
	if claims := middleware.GetClaims(c); claims != nil {
		jti = claims.ID
		if claims.ExpiresAt != nil {
			exp = claims.ExpiresAt.Time
		}
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.accounts.Logout(ctx, middleware.GetIdentity(c), jti, exp); err != nil {
		return h.fail(c, err)
	}
	c.ClearCookie(middleware.SessionCookie)
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) GetMe(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	profile, err := h.accounts.Me(ctx, middleware.GetIdentity(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(profile)
}

func (h *Handler) UpdateMe(c *fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	profile, err := h.accounts.UpdateMe(ctx, middleware.GetIdentity(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(profile)
}

// RegisterDeviceToken saves the FCM token used for push notifications.
func (h *Handler) RegisterDeviceToken(c *fiber.Ctx) error {
	var req models.DeviceTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.accounts.SetDeviceToken(ctx, middleware.GetIdentity(c), req.Token); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) Plans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"plans": models.Plans})
}

func (h *Handler) setSession(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.jwt.TTL()),
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
