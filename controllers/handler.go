package controllers

import (
	"log/slog"

	"storefront/auth"
	"storefront/catalog"
	"storefront/media"
	"storefront/orders"
)

// Handler carries the services behind the HTTP routes.
type Handler struct {
	Catalog *catalog.Service
	Auth    *auth.Service
	Orders  *orders.Service
	Media   *media.Store
	Log     *slog.Logger
}

func New(cat *catalog.Service, authn *auth.Service, ord *orders.Service, m *media.Store, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		Catalog: cat,
		Auth:    authn,
		Orders:  ord,
		Media:   m,
		Log:     log.With("component", "http"),
	}
}
