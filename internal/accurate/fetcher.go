package accurate

import (
	"context"
	"errors"
	"strconv"
	"time"

	"accurate-report/internal/config"
	"accurate-report/internal/core"
	"accurate-report/internal/logger"
	"accurate-report/internal/metrics"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sethvargo/go-retry"
)

// DetailSource performs a single detail request.
type DetailSource interface {
	InvoiceDetail(ctx context.Context, token string, id int64) (core.RawRecord, error)
}

// DetailFetcher wraps a DetailSource with a fixed-delay retry, a per-attempt
// timeout and an optional TTL cache.
type DetailFetcher struct {
	source   DetailSource
	attempts int
	delay    time.Duration
	timeout  time.Duration
	cache    *gocache.Cache
	metrics  *metrics.Metrics
}

// NewDetailFetcher builds a fetcher from the detail settings in cfg.
// A CacheTTL of zero disables caching.
func NewDetailFetcher(source DetailSource, cfg config.AccurateConfig, m *metrics.Metrics) *DetailFetcher {
	f := &DetailFetcher{
		source:   source,
		attempts: max(cfg.Attempts, 1),
		delay:    cfg.RetryDelay,
		timeout:  cfg.Timeout,
		metrics:  m,
	}
	if cfg.CacheTTL > 0 {
		f.cache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return f
}

// Fetch returns the detail record for id, or a *FetchError once every attempt
// has failed. Non-retryable upstream errors stop early.
func (f *DetailFetcher) Fetch(ctx context.Context, token string, id int64) (core.RawRecord, error) {
	key := cacheKey(token, id)
	if f.cache != nil {
		if v, ok := f.cache.Get(key); ok {
			f.metrics.DetailAttempt("cache_hit")
			return v.(core.RawRecord), nil
		}
	}

	// NewConstant panics on a non-positive duration.
	backoff := retry.WithMaxRetries(uint64(f.attempts-1), retry.NewConstant(max(f.delay, time.Nanosecond)))

	var (
		rec      core.RawRecord
		attempts int
		lastErr  error
	)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		actx := ctx
		if f.timeout > 0 {
			var cancel context.CancelFunc
			actx, cancel = context.WithTimeout(ctx, f.timeout)
			defer cancel()
		}

		r, err := f.source.InvoiceDetail(actx, token, id)
		if err != nil {
			lastErr = err
			f.metrics.DetailAttempt("error")
			logger.FromContext(ctx).Debug("detail attempt failed", "id", id, "attempt", attempts, "err", err)
			if isRetryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		f.metrics.DetailAttempt("ok")
		rec = r
		return nil
	})
	if err != nil {
		if lastErr == nil || errors.Is(err, context.Canceled) {
			lastErr = err
		}
		return core.RawRecord{}, &FetchError{ID: id, Attempts: attempts, Err: lastErr}
	}

	if f.cache != nil {
		f.cache.SetDefault(key, rec)
	}
	return rec, nil
}

// Resolve fetches and resolves the detail for id. A failed fetch is logged
// with the record id and yields the fetch-failed sentinel.
func (f *DetailFetcher) Resolve(ctx context.Context, token string, id int64, resolver *core.TaxResolver) core.TaxResolution {
	rec, err := f.Fetch(ctx, token, id)
	if err != nil {
		f.metrics.DetailFallback()
		logger.FromContext(ctx).Warn("detail unavailable, using fallback", "id", id, "err", err)
		res := core.FetchFailedResolution()
		f.metrics.Resolved(string(res.Category))
		return res
	}
	res := resolver.Resolve(rec)
	f.metrics.Resolved(string(res.Category))
	return res
}

// Keys are scoped per bearer token.
func cacheKey(token string, id int64) string {
	return token + "|" + strconv.FormatInt(id, 10)
}
