package gotext

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial backoff delay
	MaxDelay   time.Duration // Upper bound for any single wait, including server-requested ones
}

// DefaultRetryConfig returns the retry policy used by the CLI.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   5 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry runs fn until it succeeds, fails with a non-retryable error, or
// runs out of retries. Waits back off exponentially from BaseDelay; a
// ProviderError carrying RetryAfter waits at least that long. No wait
// exceeds MaxDelay.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	return withRetry(ctx, cfg, fn, nil)
}

func withRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T], onRetry func(attempt int, delay time.Duration, err error)) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) || attempt >= cfg.MaxRetries {
			return zero, err
		}

		delay := RetryDelay(cfg, attempt, err)
		if onRetry != nil {
			onRetry(attempt+1, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// RetryDelay returns how long to wait before retry number attempt+1.
func RetryDelay(cfg RetryConfig, attempt int, err error) time.Duration {
	delay := cfg.BaseDelay * time.Duration(1<<attempt)

	var providerErr *ProviderError
	if errors.As(err, &providerErr) && providerErr.RetryAfter > delay {
		delay = providerErr.RetryAfter
	}

	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}

// IsRetryable reports whether err is, or wraps, a ProviderError marked
// retryable. The provider decides; a caller's cancelled context is never marked.
func IsRetryable(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr) && providerErr.Retryable
}

// RetryableFetcher wraps a Fetcher with retry logic.
// The cache never retries on its own; wrap the fetcher to opt in.
type RetryableFetcher struct {
	fetcher Fetcher
	config  RetryConfig
	logger  zerolog.Logger
}

// NewRetryableFetcher creates a new fetcher with retry logic.
func NewRetryableFetcher(fetcher Fetcher, cfg RetryConfig) *RetryableFetcher {
	return &RetryableFetcher{
		fetcher: fetcher,
		config:  cfg,
		logger:  zerolog.Nop(),
	}
}

// WithLogger logs each retry at info level.
func (f *RetryableFetcher) WithLogger(logger zerolog.Logger) *RetryableFetcher {
	f.logger = logger
	return f
}

// FetchVersion implements Fetcher with retry logic.
func (f *RetryableFetcher) FetchVersion(ctx context.Context, key VersionKey) (*Version, error) {
	return withRetry(ctx, f.config, func() (*Version, error) {
		return f.fetcher.FetchVersion(ctx, key)
	}, func(attempt int, delay time.Duration, err error) {
		f.logger.Info().Err(err).Str("ref", key.Ref).
			Str("version", VersionParam(key.Language, key.VersionTitle)).
			Int("attempt", attempt).Dur("wait", delay).Msg("retrying fetch")
	})
}

var _ Fetcher = (*RetryableFetcher)(nil)
