package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/logger"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RatesStatus reports the state of the latest-rates cache
type RatesStatus interface {
	Base() string
	Size() int
	RefreshInterval() time.Duration
	FetchedAt() time.Time
	NextRefreshAt() time.Time
}

// HealthHandler serves liveness and metrics endpoints
type HealthHandler struct {
	rates    RatesStatus
	gatherer prometheus.Gatherer
	logger   logger.Logger
}

// NewHealthHandler creates a new health handler. Metrics are served from gatherer.
func NewHealthHandler(rates RatesStatus, gatherer prometheus.Gatherer, log logger.Logger) *HealthHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &HealthHandler{
		rates:    rates,
		gatherer: gatherer,
		logger:   log,
	}
}

// Health reports the cached rates and when they will next be refreshed
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:          "ok",
		Base:            h.rates.Base(),
		Currencies:      h.rates.Size(),
		RefreshInterval: h.rates.RefreshInterval().String(),
		FetchedAt:       h.rates.FetchedAt(),
		NextRefreshAt:   h.rates.NextRefreshAt(),
	}

	// Return response
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// RegisterRoutes registers the health and metrics routes
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	h.logger.Info("Health routes registered", map[string]interface{}{
		"routes": []string{
			"GET /healthz",
			"GET /metrics",
		},
	})
}
