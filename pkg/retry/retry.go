// Package retry runs an operation with bounded exponential backoff.
// Only errors the caller classifies as retryable are retried; anything
// else is returned immediately so validation and conflict errors never
// burn attempts.
package retry

import (
	"context"
	"time"
)

type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	RetryIf      func(error) bool
}

func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
	}
}

// Do invokes fn until it succeeds, a non-retryable error occurs, the
// attempt budget is exhausted, or ctx is cancelled. The last error seen
// is returned on failure.
func Do(ctx context.Context, config *Config, fn func(ctx context.Context) error) error {
	if config == nil {
		config = DefaultConfig()
	}

	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := config.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if config.RetryIf != nil && !config.RetryIf(lastErr) {
			return lastErr
		}

		if attempt == attempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = nextDelay(delay, config)
	}

	return lastErr
}

func nextDelay(current time.Duration, config *Config) time.Duration {
	multiplier := config.Multiplier
	if multiplier <= 1 {
		multiplier = 2.0
	}

	next := time.Duration(float64(current) * multiplier)
	if config.MaxDelay > 0 && next > config.MaxDelay {
		next = config.MaxDelay
	}

	return next
}
