// Package service internal/application/service/history_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/damon-houk/exchange-quotes-bot/internal/domain/calendar"
	"github.com/damon-houk/exchange-quotes-bot/internal/domain/entity"
	"github.com/damon-houk/exchange-quotes-bot/internal/domain/repository"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/logger"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/middleware"
)

// MaxHistoryDays is the longest range a history request may cover
const MaxHistoryDays = 3650

// HistoryService answers historical rate requests for a currency pair
type HistoryService struct {
	rates   *RateService
	history repository.HistoryRepository
	logger  logger.Logger
	now     func() time.Time
}

// NewHistoryService creates a new history service
func NewHistoryService(rates *RateService, history repository.HistoryRepository, log logger.Logger) *HistoryService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &HistoryService{
		rates:   rates,
		history: history,
		logger:  log,
		now:     time.Now,
	}
}

// History returns the daily rates of symbol quoted in base over the last days days,
// ending at the last business day before today
func (s *HistoryService) History(ctx context.Context, symbol, base string, days int) (*entity.RateHistory, error) {
	requestID := middleware.GetRequestID(ctx)

	// Validate the range length before touching the cache
	if days <= 0 || days > MaxHistoryDays {
		return nil, fmt.Errorf("%w: %d", entity.ErrInvalidDayCount, days)
	}

	symbol, err := s.rates.ValidateCurrency(symbol)
	if err != nil {
		return nil, err
	}
	base, err = s.rates.ValidateCurrency(base)
	if err != nil {
		return nil, err
	}

	end := calendar.LastBusinessDay(today(s.now()))
	query := entity.HistoryQuery{
		Base:   base,
		Symbol: symbol,
		Start:  end.AddDate(0, 0, -(days - 1)),
		End:    end,
	}

	s.logger.Debug("Finding rate history", map[string]interface{}{
		"request_id": requestID,
		"pair":       query.Title(),
		"start":      query.Start.Format(entity.DateLayout),
		"end":        query.End.Format(entity.DateLayout),
	})

	history, err := s.history.FindHistory(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate history: %w", err)
	}

	if len(history.Points) == 0 {
		s.logger.Info("No rate history available", map[string]interface{}{
			"request_id": requestID,
			"pair":       query.Title(),
		})
		return nil, fmt.Errorf("%w for %s", entity.ErrNoDataAvailable, query.Title())
	}

	return history, nil
}

// today truncates t to its calendar date at UTC midnight
func today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
