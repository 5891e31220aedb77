package routes

import (
	"github.com/gofiber/fiber/v2"

	"storefront/controllers"
	"storefront/middleware"
)

func RegisterRoutes(app *fiber.App, h *controllers.Handler) {
	api := app.Group("/api")

	api.Get("/health", h.Health)

	// storefront
	api.Get("/products", h.ListProducts)
	api.Get("/products/:id", h.GetProduct)
	api.Post("/orders", h.PlaceOrder)

	// accounts
	requireAuth := middleware.RequireAuth(h.Auth)
	api.Post("/auth/signup", h.SignUp)
	api.Post("/auth/signin", h.SignIn)
	api.Get("/auth/verify-email", h.VerifyEmail)
	api.Get("/auth/verify-admin", requireAuth, middleware.RequireAdmin, h.VerifyAdmin)

	// back office
	admin := api.Group("/admin", requireAuth, middleware.RequireAdmin)
	admin.Get("/products", h.AdminListProducts)
	admin.Post("/products", h.CreateProduct)
	admin.Put("/products/:id", h.UpdateProduct)
	admin.Delete("/products/:id", h.DeleteProduct)
	admin.Post("/uploads", h.UploadImages)
}
