package service

import (
	"context"
	"fmt"
	"iter"
	"math"

	"github.com/damon-houk/exchange-quotes-bot/internal/domain/entity"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/logger"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/middleware"
)

// RateCache is the latest-rates cache the services read from
type RateCache interface {
	RefreshIfStale(ctx context.Context) error
	Get(currency string) (float64, bool)
	IsValidCurrency(currency string) bool
	All() iter.Seq2[string, float64]
}

// RateService answers listing and conversion requests from the latest rates
type RateService struct {
	rates  RateCache
	logger logger.Logger
}

// NewRateService creates a new rate service
func NewRateService(rates RateCache, log logger.Logger) *RateService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateService{
		rates:  rates,
		logger: log,
	}
}

// RefreshRates refetches the latest rates if the cache is stale
func (s *RateService) RefreshRates(ctx context.Context) error {
	if err := s.rates.RefreshIfStale(ctx); err != nil {
		s.logger.Error("Failed to refresh rates", map[string]interface{}{
			"request_id": middleware.GetRequestID(ctx),
			"error":      err.Error(),
		})
		return fmt.Errorf("failed to refresh rates: %w", err)
	}
	return nil
}

// ListRates returns every cached rate ordered by currency code
func (s *RateService) ListRates() []entity.Rate {
	var rates []entity.Rate
	for code, value := range s.rates.All() {
		rates = append(rates, entity.Rate{Currency: code, Value: value})
	}
	return rates
}

// ValidateCurrency normalises code and checks it against the current rates
func (s *RateService) ValidateCurrency(code string) (string, error) {
	code = entity.NormalizeCurrency(code)
	if !s.rates.IsValidCurrency(code) {
		return "", &entity.InvalidCurrencyError{Code: code}
	}
	return code, nil
}

// Convert exchanges amount of from into to using the rates against the base currency
func (s *RateService) Convert(ctx context.Context, amount float64, from, to string) (*entity.Conversion, error) {
	requestID := middleware.GetRequestID(ctx)

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidAmount, amount)
	}

	from, err := s.ValidateCurrency(from)
	if err != nil {
		return nil, err
	}
	to, err = s.ValidateCurrency(to)
	if err != nil {
		return nil, err
	}

	fromRate, _ := s.rates.Get(from)
	toRate, _ := s.rates.Get(to)
	if fromRate == 0 {
		return nil, &entity.InvalidCurrencyError{Code: from}
	}

	conversion := &entity.Conversion{
		Amount: amount,
		From:   from,
		To:     to,
		Result: amount * toRate / fromRate,
	}

	s.logger.Debug("Conversion completed", map[string]interface{}{
		"request_id": requestID,
		"amount":     amount,
		"from":       from,
		"to":         to,
		"from_rate":  fromRate,
		"to_rate":    toRate,
		"result":     conversion.Result,
	})

	return conversion, nil
}
