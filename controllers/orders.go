package controllers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/middleware"
	"storefront/models"
)

// POST /api/orders
func (h *Handler) PlaceOrder(c *fiber.Ctx) error {
	var in models.OrderInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}

	o, err := h.Orders.Place(c.UserContext(), in)
	middleware.RecordOperation("order.place", err)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.CreateOrderResp{Success: true, Order: o})
}
