package cache

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"sync"
	"time"

	"github.com/damon-houk/exchange-quotes-bot/internal/domain/entity"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/logger"
	"github.com/damon-houk/exchange-quotes-bot/internal/metrics"
	"golang.org/x/sync/singleflight"
)

const defaultRefreshTimeout = 30 * time.Second

// LatestRatesFetcher fetches a full snapshot of rates against a base currency
type LatestRatesFetcher interface {
	FetchLatestRates(ctx context.Context, base string) (*entity.RateSnapshot, error)
}

// RateCache holds the most recent rates snapshot and refetches it at most once per
// refresh interval. A snapshot is immutable once published; refreshes swap it whole.
type RateCache struct {
	fetcher         LatestRatesFetcher
	base            string
	refreshInterval time.Duration
	refreshTimeout  time.Duration
	now             func() time.Time
	logger          logger.Logger
	metrics         *metrics.Metrics

	mutex         sync.RWMutex
	snapshot      *entity.RateSnapshot
	codes         []string
	nextRefreshAt time.Time

	refreshGroup singleflight.Group
}

// Option configures a RateCache
type Option func(*RateCache)

// WithClock replaces time.Now as the cache's time source
func WithClock(now func() time.Time) Option {
	return func(c *RateCache) { c.now = now }
}

// WithRefreshTimeout bounds a single upstream fetch
func WithRefreshTimeout(timeout time.Duration) Option {
	return func(c *RateCache) { c.refreshTimeout = timeout }
}

// WithLogger sets the cache logger
func WithLogger(log logger.Logger) Option {
	return func(c *RateCache) { c.logger = log }
}

// WithMetrics records refresh outcomes
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *RateCache) { c.metrics = m }
}

// NewRateCache creates a cache for rates against entity.BaseCurrency and performs
// the initial fetch. Construction fails if that fetch fails.
func NewRateCache(ctx context.Context, fetcher LatestRatesFetcher, refreshInterval time.Duration, opts ...Option) (*RateCache, error) {
	if refreshInterval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", refreshInterval)
	}

	c := &RateCache{
		fetcher:         fetcher,
		base:            entity.BaseCurrency,
		refreshInterval: refreshInterval,
		refreshTimeout:  defaultRefreshTimeout,
		now:             time.Now,
		logger:          logger.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.refresh(ctx); err != nil {
		return nil, fmt.Errorf("initial rates refresh: %w", err)
	}
	return c, nil
}

// RefreshIfStale refetches the snapshot when the refresh interval has elapsed.
// Concurrent callers share one in-flight fetch, which is not cancelled when any
// one caller gives up. On failure the previous snapshot and refresh deadline are
// kept and the error is returned.
func (c *RateCache) RefreshIfStale(ctx context.Context) error {
	if !c.isStale() {
		return nil
	}

	results := c.refreshGroup.DoChan("latest", func() (interface{}, error) {
		// a refresh may have completed between the check above and this call
		if !c.isStale() {
			return nil, nil
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
		defer cancel()
		return nil, c.refresh(fetchCtx)
	})

	// Each caller stops waiting on its own cancellation; the fetch carries on
	select {
	case result := <-results:
		return result.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *RateCache) isStale() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.snapshot == nil || !c.now().Before(c.nextRefreshAt)
}

func (c *RateCache) refresh(ctx context.Context) error {
	fetched, err := c.fetcher.FetchLatestRates(ctx, c.base)
	if err == nil && (fetched == nil || len(fetched.Rates) == 0) {
		err = fmt.Errorf("%w: empty rates snapshot", entity.ErrUpstreamFetch)
	}
	if err != nil {
		c.metrics.ObserveRefresh(metrics.RefreshFailed)
		c.logger.Warn("Rates refresh failed", map[string]interface{}{
			"base":  c.base,
			"error": err.Error(),
		})
		return err
	}

	rates := make(map[string]float64, len(fetched.Rates))
	codes := make([]string, 0, len(fetched.Rates))
	for code, rate := range fetched.Rates {
		code = entity.NormalizeCurrency(code)
		if _, dup := rates[code]; !dup {
			codes = append(codes, code)
		}
		rates[code] = rate
	}
	sort.Strings(codes)

	snapshot := &entity.RateSnapshot{
		Base:      c.base,
		Rates:     rates,
		FetchedAt: fetched.FetchedAt,
	}

	c.mutex.Lock()
	c.snapshot = snapshot
	c.codes = codes
	c.nextRefreshAt = c.now().Add(c.refreshInterval)
	next := c.nextRefreshAt
	c.mutex.Unlock()

	c.metrics.ObserveRefresh(metrics.RefreshFetched)
	c.logger.Info("Rates refreshed", map[string]interface{}{
		"base":            c.base,
		"currencies":      len(codes),
		"next_refresh_at": next.Format(time.RFC3339),
	})
	return nil
}

// current returns the published snapshot. Reading before the first successful
// refresh is a programming error.
func (c *RateCache) current() (*entity.RateSnapshot, []string) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.snapshot == nil {
		panic("cache: rates read before the first successful refresh")
	}
	return c.snapshot, c.codes
}

// Get returns the rate of currency against the base currency
func (c *RateCache) Get(currency string) (float64, bool) {
	snapshot, _ := c.current()
	rate, ok := snapshot.Rates[entity.NormalizeCurrency(currency)]
	return rate, ok
}

// IsValidCurrency reports whether currency is present in the current snapshot
func (c *RateCache) IsValidCurrency(currency string) bool {
	_, ok := c.Get(currency)
	return ok
}

// All yields every currency and rate of the snapshot current at the start of
// iteration, ordered by currency code
func (c *RateCache) All() iter.Seq2[string, float64] {
	return func(yield func(string, float64) bool) {
		snapshot, codes := c.current()
		for _, code := range codes {
			if !yield(code, snapshot.Rates[code]) {
				return
			}
		}
	}
}

// Size returns the number of currencies in the current snapshot
func (c *RateCache) Size() int {
	_, codes := c.current()
	return len(codes)
}

// Base returns the currency all rates are expressed against
func (c *RateCache) Base() string {
	return c.base
}

// RefreshInterval returns the minimum time between upstream fetches
func (c *RateCache) RefreshInterval() time.Duration {
	return c.refreshInterval
}

// NextRefreshAt returns the earliest time the next refresh will fetch
func (c *RateCache) NextRefreshAt() time.Time {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.nextRefreshAt
}

// FetchedAt returns when the current snapshot was fetched
func (c *RateCache) FetchedAt() time.Time {
	snapshot, _ := c.current()
	return snapshot.FetchedAt
}
