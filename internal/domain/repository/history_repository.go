// Package repository internal/domain/repository/history_repository.go
package repository

import (
	"context"

	"github.com/damon-houk/exchange-quotes-bot/internal/domain/entity"
)

// HistoryRepository defines the interface for historical rate access
type HistoryRepository interface {
	// FindHistory returns the daily rates for the query, fetching them if needed
	FindHistory(ctx context.Context, query entity.HistoryQuery) (*entity.RateHistory, error)
}
