package handler

import "time"

// HealthResponse represents the response for the health endpoint
type HealthResponse struct {
	Status          string    `json:"status"`
	Base            string    `json:"base"`
	Currencies      int       `json:"currencies"`
	RefreshInterval string    `json:"refresh_interval"`
	FetchedAt       time.Time `json:"fetched_at"`
	NextRefreshAt   time.Time `json:"next_refresh_at"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
