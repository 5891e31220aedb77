package routes

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/controllers"
	"storefront/middleware"
)

type Options struct {
	AllowOrigins    string
	UploadDir       string
	UploadURLPrefix string
	Logger          *slog.Logger
}

// bodyLimit leaves room for a full batch of product photos.
const bodyLimit = 64 << 20

// NewApp builds the Fiber app with the middleware stack, static uploads,
// metrics and every API route.
func NewApp(h *controllers.Handler, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "storefront",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(opts.Logger),
	})

	allow := strings.TrimSpace(opts.AllowOrigins)
	if allow == "" {
		allow = "http://localhost:3000,http://127.0.0.1:3000"
	}

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.Logging(opts.Logger))
	app.Use(middleware.Metrics())
	app.Use(cors.New(cors.Config{
		AllowOrigins: allow,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	if opts.UploadDir != "" && opts.UploadURLPrefix != "" {
		app.Static(opts.UploadURLPrefix, opts.UploadDir)
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	RegisterRoutes(app, h)
	return app
}

func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	if log == nil {
		log = slog.Default()
	}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}
		log.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}
}
