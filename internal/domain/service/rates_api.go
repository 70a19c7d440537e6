package service

import (
	"context"

	"github.com/damon-houk/exchange-quotes-bot/internal/domain/entity"
)

// RatesAPI defines the interface for interacting with the exchange rates API
type RatesAPI interface {
	// FetchLatestRates retrieves the current rates of every currency against base
	FetchLatestRates(ctx context.Context, base string) (*entity.RateSnapshot, error)

	// FetchHistory retrieves daily rates for a currency pair over a date range
	FetchHistory(ctx context.Context, query entity.HistoryQuery) (*entity.RateHistory, error)
}
