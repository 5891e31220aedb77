package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/auth"
	"storefront/catalog"
	"storefront/models"
)

// statusFor maps service errors onto HTTP statuses and client-facing
// messages. Anything unrecognised is a 500 with an opaque body.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, catalog.ErrNotFound):
		return fiber.StatusNotFound, "Not found"
	case errors.Is(err, auth.ErrUnauthorized):
		return fiber.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, auth.ErrForbidden):
		return fiber.StatusForbidden, "Forbidden"
	case errors.Is(err, auth.ErrUnverified):
		return fiber.StatusForbidden, "Please verify your email before signing in."
	case errors.Is(err, auth.ErrConflict):
		return fiber.StatusConflict, "User already exists"
	case errors.Is(err, auth.ErrInvalidLink):
		return fiber.StatusBadRequest, "Invalid or expired verification link."
	case errors.Is(err, auth.ErrAlreadyVerified):
		return fiber.StatusBadRequest, "Email already verified."
	}
	return fiber.StatusInternalServerError, "Server error"
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status, msg := statusFor(err)
	if status == fiber.StatusInternalServerError {
		h.Log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
}
