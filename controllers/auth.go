package controllers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/middleware"
	"storefront/models"
)

// POST /api/auth/signup
func (h *Handler) SignUp(c *fiber.Ctx) error {
	var in models.SignUpInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}

	err := h.Auth.SignUp(c.UserContext(), in)
	middleware.RecordOperation("auth.signup", err)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Signup successful, please verify your email."})
}

// POST /api/auth/signin
func (h *Handler) SignIn(c *fiber.Ctx) error {
	var in models.SignInInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}

	resp, err := h.Auth.SignIn(c.UserContext(), in)
	middleware.RecordOperation("auth.signin", err)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// GET /api/auth/verify-email?token=
func (h *Handler) VerifyEmail(c *fiber.Ctx) error {
	err := h.Auth.VerifyEmail(c.UserContext(), c.Query("token"))
	middleware.RecordOperation("auth.verify_email", err)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Email verified successfully. You can now sign in."})
}

// GET /api/auth/verify-admin
func (h *Handler) VerifyAdmin(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true, "admin": true})
}
