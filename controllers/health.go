package controllers

import "github.com/gofiber/fiber/v2"

// GET /api/health
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}
