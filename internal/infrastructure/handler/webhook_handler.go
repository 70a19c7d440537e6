// Package handler internal/infrastructure/handler/webhook_handler.go
package handler

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/logger"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// WebhookHandler accepts chat platform updates posted to the secret bot token path
type WebhookHandler struct {
	token   string
	updates http.Handler
	logger  logger.Logger
}

// NewWebhookHandler creates a webhook handler that forwards updates posted to
// /{token} to updates
func NewWebhookHandler(token string, updates http.Handler, log logger.Logger) *WebhookHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &WebhookHandler{
		token:   token,
		updates: updates,
		logger:  log,
	}
}

// ReceiveUpdate handles one webhook delivery
func (h *WebhookHandler) ReceiveUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	// Get token from URL and compare in constant time
	token := mux.Vars(r)["token"]
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) != 1 {
		h.logger.Warn("Webhook called with unknown token", map[string]interface{}{
			"request_id":  requestID,
			"remote_addr": r.RemoteAddr,
		})
		sendErrorResponse(w, h.logger, "Not found", "", http.StatusNotFound, requestID)
		return
	}

	// Hand the update to the chat platform adapter
	h.updates.ServeHTTP(w, r)
}

// RegisterRoutes registers the webhook route
func (h *WebhookHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/{token}", h.ReceiveUpdate).Methods(http.MethodPost)

	h.logger.Info("Webhook routes registered", map[string]interface{}{
		"routes": []string{
			"POST /{token}",
		},
	})
}

// sendErrorResponse sends a standardized JSON error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	json.NewEncoder(w).Encode(resp)
}
