package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"storefront/catalog"
)

// GET /api/products?category=&gender=&page=&pageSize=
func (h *Handler) ListProducts(c *fiber.Ctx) error {
	q := catalog.Query{
		Gender:   c.Query("gender"),
		Category: c.Query("category"),
		Page:     queryInt(c, "page", catalog.DefaultPage),
		PageSize: queryInt(c, "pageSize", catalog.DefaultPageSize),
	}

	res, err := h.Catalog.List(c.UserContext(), q)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(res)
}

// GET /api/products/:id
func (h *Handler) GetProduct(c *fiber.Ctx) error {
	p, err := h.Catalog.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

// queryInt reads an integer query parameter; absent or malformed values
// fall back to def.
func queryInt(c *fiber.Ctx, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
