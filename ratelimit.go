package gotext

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Maximum requests per minute (default: 60)
	BurstSize         int // Maximum burst size (default: same as RPM)
}

// NewRateLimiter creates a token bucket limiter from cfg.
func NewRateLimiter(cfg RateLimitConfig) *rate.Limiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}

	burst := cfg.BurstSize
	if burst <= 0 {
		burst = rpm
	}

	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

// RateLimitedFetcher wraps a Fetcher with rate limiting.
type RateLimitedFetcher struct {
	fetcher Fetcher
	limiter *rate.Limiter
}

// NewRateLimitedFetcher creates a new rate-limited fetcher.
func NewRateLimitedFetcher(fetcher Fetcher, cfg RateLimitConfig) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		fetcher: fetcher,
		limiter: NewRateLimiter(cfg),
	}
}

// FetchVersion implements Fetcher with rate limiting.
func (f *RateLimitedFetcher) FetchVersion(ctx context.Context, key VersionKey) (*Version, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, &ProviderError{
			Message:   "rate limit wait cancelled",
			Cause:     err,
			Retryable: false,
		}
	}

	return f.fetcher.FetchVersion(ctx, key)
}

// Limiter returns the underlying rate limiter for inspection.
func (f *RateLimitedFetcher) Limiter() *rate.Limiter {
	return f.limiter
}

var _ Fetcher = (*RateLimitedFetcher)(nil)
