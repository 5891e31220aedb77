package controllers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/media"
	"storefront/middleware"
)

// POST /api/admin/uploads?gender=women  (multipart field "images")
func (h *Handler) UploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return h.fail(c, media.ErrNoFiles)
	}

	urls, err := h.Media.Save(c.Query("gender"), form.File["images"])
	middleware.RecordOperation("media.upload", err)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "files": urls})
}
