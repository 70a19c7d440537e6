// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/exchange-quotes-bot/internal/domain/entity"
	"github.com/damon-houk/exchange-quotes-bot/internal/domain/repository"
	"github.com/damon-houk/exchange-quotes-bot/internal/domain/service"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/logger"
	"github.com/stretchr/testify/mock"
)

var (
	_ service.RatesAPI             = (*MockRatesAPI)(nil)
	_ repository.HistoryRepository = (*MockHistoryRepository)(nil)
	_ logger.Logger                = (*MockLogger)(nil)
)

// MockRatesAPI mocks the RatesAPI interface
type MockRatesAPI struct {
	mock.Mock
}

func (m *MockRatesAPI) FetchLatestRates(ctx context.Context, base string) (*entity.RateSnapshot, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateSnapshot), args.Error(1)
}

func (m *MockRatesAPI) FetchHistory(ctx context.Context, query entity.HistoryQuery) (*entity.RateHistory, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateHistory), args.Error(1)
}

// MockHistoryRepository mocks the HistoryRepository interface
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) FindHistory(ctx context.Context, query entity.HistoryQuery) (*entity.RateHistory, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateHistory), args.Error(1)
}

// MockReplier mocks the chat reply interface
type MockReplier struct {
	mock.Mock
}

func (m *MockReplier) SendText(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

func (m *MockReplier) SendPhoto(ctx context.Context, chatID int64, name string, png []byte) error {
	args := m.Called(ctx, chatID, name, png)
	return args.Error(0)
}

// MockChartRenderer mocks the chart renderer interface
type MockChartRenderer struct {
	mock.Mock
}

func (m *MockChartRenderer) Render(title string, points []entity.RatePoint) ([]byte, error) {
	args := m.Called(title, points)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	args := m.Called(key, value)
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	args := m.Called(fields)
	return args.Get(0).(logger.Logger)
}
