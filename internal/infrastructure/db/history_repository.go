// Package db internal/infrastructure/db/history_repository.go
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/damon-houk/exchange-quotes-bot/internal/domain/entity"
	"github.com/damon-houk/exchange-quotes-bot/internal/domain/repository"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/logger"
)

// HistoryProvider defines an interface for providers of historical rate data
type HistoryProvider interface {
	FetchHistory(ctx context.Context, query entity.HistoryQuery) (*entity.RateHistory, error)
}

// HistoryStore defines persistence for fetched rate histories
type HistoryStore interface {
	Get(ctx context.Context, query entity.HistoryQuery) (*entity.RateHistory, bool, error)
	Put(ctx context.Context, history *entity.RateHistory) error
}

// CachedHistoryRepository reads rate histories through a store in front of the provider
type CachedHistoryRepository struct {
	provider HistoryProvider
	store    HistoryStore
	logger   logger.Logger
}

// NewCachedHistoryRepository creates a history repository. store may be nil.
func NewCachedHistoryRepository(provider HistoryProvider, store HistoryStore, log logger.Logger) repository.HistoryRepository {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CachedHistoryRepository{
		provider: provider,
		store:    store,
		logger:   log,
	}
}

// FindHistory returns the rate history for query from the store, or fetches and stores it
func (r *CachedHistoryRepository) FindHistory(ctx context.Context, query entity.HistoryQuery) (*entity.RateHistory, error) {
	fields := map[string]interface{}{
		"base":   query.Base,
		"symbol": query.Symbol,
		"start":  query.Start.Format(entity.DateLayout),
		"end":    query.End.Format(entity.DateLayout),
	}

	if r.store != nil {
		history, found, err := r.store.Get(ctx, query)
		switch {
		case err != nil:
			r.logger.Warn("Rate history store read failed", withError(fields, err))
		case found:
			r.logger.Debug("Rate history served from store", fields)
			history.Query = query
			return history, nil
		}
	}

	startTime := time.Now()
	history, err := r.provider.FetchHistory(ctx, query)
	if err != nil {
		r.logger.Error("Failed to retrieve rate history", withError(fields, err))
		return nil, fmt.Errorf("failed to retrieve rate history: %w", err)
	}

	r.logger.Info("Rate history fetched", map[string]interface{}{
		"base":         query.Base,
		"symbol":       query.Symbol,
		"points":       len(history.Points),
		"time_to_find": time.Since(startTime).String(),
	})

	if r.store != nil && isComplete(history) {
		if err := r.store.Put(ctx, history); err != nil {
			r.logger.Warn("Rate history store write failed", withError(fields, err))
		}
	}

	return history, nil
}

// isComplete reports whether the history already contains its final day. Ranges
// whose last day has not been published yet are not stored.
func isComplete(history *entity.RateHistory) bool {
	if len(history.Points) == 0 {
		return false
	}
	last := history.Points[len(history.Points)-1].Date
	return last.Format(entity.DateLayout) == history.Query.End.Format(entity.DateLayout)
}

func withError(fields map[string]interface{}, err error) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = err.Error()
	return out
}
