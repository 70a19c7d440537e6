package entity

import (
	"strings"
	"time"
)

// BaseCurrency is the currency every cached rate is expressed against
const BaseCurrency = "USD"

// RateSnapshot is the full set of currency rates fetched in one refresh
type RateSnapshot struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Rate is a single row of a rates listing
type Rate struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
}

// NormalizeCurrency upper-cases and trims a currency code
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
