package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts     int           `env:"CONNECT_MAX_ATTEMPTS" envDefault:"3"`
	InitialDelay    time.Duration `env:"CONNECT_INITIAL_DELAY" envDefault:"100ms"`
	MaxDelay        time.Duration `env:"CONNECT_MAX_DELAY" envDefault:"2s"`
	BackoffFactor   float64       `env:"CONNECT_BACKOFF_FACTOR" envDefault:"2"`
	MaxTotalTimeout time.Duration `env:"CONNECT_MAX_TOTAL_TIMEOUT" envDefault:"10s"`
}

// DefaultConfig is used for startup connections to backing services
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        2 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 10 * time.Second,
	}
}

// AttemptFunc is told about every failed attempt that will be retried
type AttemptFunc func(attempt int, err error, nextDelay time.Duration)

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs fn with exponential backoff until it succeeds
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	return DoWithLog(ctx, cfg, "", fn, nil)
}

// DoWithLog runs fn with exponential backoff and reports each failed attempt
// to onRetry. Errors are prefixed with the service name when one is given.
func DoWithLog(ctx context.Context, cfg Config, service string, fn func(ctx context.Context) error, onRetry AttemptFunc) error {
	err := run(ctx, cfg, fn, onRetry)
	if err != nil && service != "" {
		return fmt.Errorf("%s: %w", service, err)
	}
	return err
}

func run(ctx context.Context, cfg Config, fn func(ctx context.Context) error, onRetry AttemptFunc) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return fmt.Errorf("retry aborted after %d attempts: %w (last error: %v)", attempt-1, err, lastErr)
			}
			return fmt.Errorf("retry aborted: %w", err)
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err

		if attempt == cfg.MaxAttempts {
			break
		}
		if onRetry != nil {
			onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted after %d attempts: %w (last error: %v)", attempt, ctx.Err(), lastErr)
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}
