// internal/infrastructure/api/exchange_rates_client_test.go
package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/damon-houk/exchange-quotes-bot/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string, opts ...ClientOption) *ExchangeRatesClient {
	return NewExchangeRatesClient(append([]ClientOption{WithBaseURL(serverURL)}, opts...)...)
}

func TestFetchLatestRates(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		assert.Equal(t, "secret", r.URL.Query().Get("access_key"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"USD","date":"2024-01-10","rates":{"EUR":0.9,"GBP":0.8,"USD":1}}`))
	}))
	defer mockServer.Close()

	fixed := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	client := newTestClient(mockServer.URL, WithAPIKey("secret"))
	client.now = func() time.Time { return fixed }

	snapshot, err := client.FetchLatestRates(context.Background(), "USD")

	require.NoError(t, err)
	assert.Equal(t, "USD", snapshot.Base)
	assert.Equal(t, map[string]float64{"EUR": 0.9, "GBP": 0.8, "USD": 1}, snapshot.Rates)
	assert.Equal(t, fixed, snapshot.FetchedAt)
}

func TestFetchLatestRatesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusBadGateway, `bad gateway`},
		{"malformed json", http.StatusOK, `{"rates":`},
		{"missing rates", http.StatusOK, `{"base":"USD"}`},
		{"wrong rates type", http.StatusOK, `{"rates":{"EUR":"0.9"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer mockServer.Close()

			snapshot, err := newTestClient(mockServer.URL).FetchLatestRates(context.Background(), "USD")

			assert.Nil(t, snapshot)
			assert.ErrorIs(t, err, entity.ErrUpstreamFetch)
		})
	}
}

func TestFetchLatestRatesUnreachable(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := mockServer.URL
	mockServer.Close()

	_, err := newTestClient(serverURL).FetchLatestRates(context.Background(), "USD")

	assert.ErrorIs(t, err, entity.ErrUpstreamFetch)
	assert.Contains(t, err.Error(), "failed to execute request")
}

func TestFetchHistory(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/history", r.URL.Path)
		assert.Equal(t, "2024-01-01", q.Get("start_at"))
		assert.Equal(t, "2024-01-05", q.Get("end_at"))
		assert.Equal(t, "USD", q.Get("base"))
		assert.Equal(t, "EUR", q.Get("symbols"))
		assert.Empty(t, q.Get("access_key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"base": "USD",
			"start_at": "2024-01-01",
			"end_at": "2024-01-05",
			"rates": {
				"2024-01-04": {"EUR": 0.913},
				"2024-01-02": {"EUR": 0.911},
				"2024-01-05": {"EUR": 0.915},
				"2024-01-03": {"EUR": 0.912}
			}
		}`))
	}))
	defer mockServer.Close()

	query := entity.HistoryQuery{
		Base:   "USD",
		Symbol: "EUR",
		Start:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}

	history, err := newTestClient(mockServer.URL).FetchHistory(context.Background(), query)

	require.NoError(t, err)
	assert.Equal(t, query, history.Query)
	require.Len(t, history.Points, 4)
	for i, want := range []float64{0.911, 0.912, 0.913, 0.915} {
		assert.Equal(t, want, history.Points[i].Rate)
		assert.Equal(t, time.Date(2024, 1, 2+i, 0, 0, 0, 0, time.UTC), history.Points[i].Date)
	}
}

func TestFetchHistoryEmpty(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"USD","rates":{}}`))
	}))
	defer mockServer.Close()

	history, err := newTestClient(mockServer.URL).FetchHistory(context.Background(), entity.HistoryQuery{Base: "USD", Symbol: "EUR"})

	require.NoError(t, err)
	assert.Empty(t, history.Points)
}

func TestFetchHistoryBadDate(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"yesterday":{"EUR":0.9}}}`))
	}))
	defer mockServer.Close()

	_, err := newTestClient(mockServer.URL).FetchHistory(context.Background(), entity.HistoryQuery{Base: "USD", Symbol: "EUR"})

	assert.ErrorIs(t, err, entity.ErrUpstreamFetch)
}

func TestFetchHonoursContext(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer mockServer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(mockServer.URL).FetchLatestRates(ctx, "USD")

	assert.ErrorIs(t, err, entity.ErrUpstreamFetch)
	assert.ErrorIs(t, err, context.Canceled)
}
