package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/shelfwise/pricescan/internal/apperr"
)

// RetryConfig controls retry behavior with exponential backoff and jitter.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (including the first
	// try). A value of 1 means no retries. Default: 3.
	MaxAttempts int

	// BaseDelay is the backoff before the first retry. Default: 1s.
	BaseDelay time.Duration

	// MaxDelay caps the backoff duration. Default: 30s.
	MaxDelay time.Duration

	// Multiplier scales the backoff after each attempt. Default: 1.5.
	Multiplier float64

	// RetryableCodes is the set of error codes worth retrying. If nil,
	// apperr.DefaultRetryable() is used.
	RetryableCodes map[apperr.Code]bool

	// ShouldRetry optionally overrides the code-set check entirely.
	ShouldRetry func(err error) bool

	// OnRetry is called once per retried (non-terminal) failure, before
	// the backoff sleep, with the 1-based attempt number and its error.
	// Never called on success or on the final failing attempt.
	OnRetry func(attempt int, err error)
}

// DefaultRetryConfig returns the canonical retry policy for the external
// AI call.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  1.5,
	}
}

// DoVal executes fn with retry according to cfg, preserving the value
// from the successful call. Only errors whose code is in the retryable
// set are retried; everything else (including errors with no recognizable
// code) propagates immediately and unchanged. Context cancellation is
// observed between attempts, not mid-call.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg = applyDefaults(cfg)

	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		codes := cfg.RetryableCodes
		if codes == nil {
			codes = apperr.DefaultRetryable()
		}
		shouldRetry = func(err error) bool {
			return apperr.IsRetryable(err, codes)
		}
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, lastErr
		}
		if !shouldRetry(lastErr) {
			return zero, lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr)
		}

		timer := time.NewTimer(backoffDelay(attempt, cfg))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}

	return zero, lastErr
}

// Do is DoVal for operations without a return value.
func Do(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	_, err := DoVal(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func applyDefaults(cfg RetryConfig) RetryConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 1.5
	}
	return cfg
}

// backoffDelay computes base·multiplier^(attempt-1) capped at MaxDelay,
// plus up to 10% uniform jitter so concurrent callers desynchronize.
func backoffDelay(attempt int, cfg RetryConfig) time.Duration {
	delay := float64(cfg.BaseDelay) * math.Pow(cfg.Multiplier, float64(attempt-1))
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	delay += delay * rand.Float64() * 0.1
	return time.Duration(delay)
}

// RetryLogger returns an OnRetry callback that logs each retry attempt.
func RetryLogger(service, operation string) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("retrying operation",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
