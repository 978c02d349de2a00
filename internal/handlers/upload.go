package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arnold/coachly-api/internal/middleware"
	"github.com/arnold/coachly-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxPhotoSize = 5 * 1024 * 1024

var photoTypes = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// UploadPhoto stores a profile picture and points photoURL at it.
func (h *Handler) UploadPhoto(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "No image file provided")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !photoTypes[ext] {
		return badRequest(c, "Only jpg, png, and webp images are allowed")
	}
	if file.Size > maxPhotoSize {
		return badRequest(c, "Image must be under 5MB")
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.log.Error("create upload dir failed", zap.String("dir", h.uploadDir), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save image",
		})
	}

	filename := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		h.log.Error("save upload failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save image",
		})
	}

	url := fmt.Sprintf("/uploads/%s", filename)
	ctx, cancel := h.ctx(c)
	defer cancel()
	profile, err := h.accounts.UpdateMe(ctx, middleware.GetIdentity(c), models.UpdateProfileRequest{PhotoURL: &url})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"url": url, "user": profile})
}
