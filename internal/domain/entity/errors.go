package entity

import "errors"

var (
	// ErrInvalidAmount is returned when an amount argument is not a number
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidCurrency is returned when a currency code is absent from the current snapshot
	ErrInvalidCurrency = errors.New("invalid currency")
	// ErrInvalidDayCount is returned when a day count is not a positive whole number
	ErrInvalidDayCount = errors.New("invalid day count")
	// ErrNoDataAvailable is returned when a historical query yields no rates
	ErrNoDataAvailable = errors.New("no exchange rate data available")
	// ErrUpstreamFetch is returned when the rates source is unreachable or returns malformed data
	ErrUpstreamFetch = errors.New("upstream rates fetch failed")
	// ErrUsage is returned when a command is missing arguments or is malformed
	ErrUsage = errors.New("malformed command")
)

// InvalidCurrencyError names the currency code that failed validation
type InvalidCurrencyError struct {
	Code string
}

func (e *InvalidCurrencyError) Error() string {
	return "invalid currency: " + e.Code
}

// Is lets errors.Is match ErrInvalidCurrency
func (e *InvalidCurrencyError) Is(target error) bool {
	return target == ErrInvalidCurrency
}
