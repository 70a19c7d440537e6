package handler

import (
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/logger"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/middleware"
	"github.com/damon-houk/exchange-quotes-bot/internal/metrics"
	"github.com/gorilla/mux"
)

// RouteRegistrar adds its routes to a router
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// NewRouter creates a router with request id, logging and metrics middleware.
// Registrars are applied in order, so fixed paths must come before /{token}.
func NewRouter(log logger.Logger, m *metrics.Metrics, registrars ...RouteRegistrar) *mux.Router {
	router := mux.NewRouter()
	router.Use(
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.MetricsMiddleware(m),
	)

	for _, registrar := range registrars {
		registrar.RegisterRoutes(router)
	}
	return router
}
