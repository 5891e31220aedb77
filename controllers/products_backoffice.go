package controllers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/middleware"
	"storefront/models"
)

// GET /api/admin/products
func (h *Handler) AdminListProducts(c *fiber.Ctx) error {
	products, err := h.Catalog.AdminList(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(products)
}

// POST /api/admin/products
func (h *Handler) CreateProduct(c *fiber.Ctx) error {
	var in models.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}

	p, err := h.Catalog.Create(c.UserContext(), in)
	middleware.RecordOperation("product.create", err)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

// PUT /api/admin/products/:id
func (h *Handler) UpdateProduct(c *fiber.Ctx) error {
	var patch models.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c)
	}

	p, err := h.Catalog.Update(c.UserContext(), c.Params("id"), patch)
	middleware.RecordOperation("product.update", err)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

// DELETE /api/admin/products/:id
func (h *Handler) DeleteProduct(c *fiber.Ctx) error {
	err := h.Catalog.Delete(c.UserContext(), c.Params("id"))
	middleware.RecordOperation("product.delete", err)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
