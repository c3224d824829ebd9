package store

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// RetryConfig bounds retries of failed store writes.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns sensible retry defaults for a local database.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 50 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2.0,
	}
}

// RetryStore is a decorator that retries persistence failures with
// exponential backoff and jitter. Increments always carry an op key so a
// retried attempt cannot apply twice.
type RetryStore struct {
	inner  ProgressStore
	config RetryConfig
}

// WithRetry wraps a ProgressStore with retry logic.
func WithRetry(ps ProgressStore, cfg RetryConfig) ProgressStore {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryStore{inner: ps, config: cfg}
}

func (r *RetryStore) Get(ctx context.Context, path string) (any, bool, error) {
	var (
		v  any
		ok bool
	)
	err := r.do(ctx, func() error {
		var err error
		v, ok, err = r.inner.Get(ctx, path)
		return err
	})
	return v, ok, err
}

func (r *RetryStore) Set(ctx context.Context, path string, value any) error {
	return r.do(ctx, func() error { return r.inner.Set(ctx, path, value) })
}

func (r *RetryStore) Update(ctx context.Context, path string, fields map[string]any) error {
	return r.do(ctx, func() error { return r.inner.Update(ctx, path, fields) })
}

func (r *RetryStore) Increment(ctx context.Context, path string, delta int64, opKey string) (int64, error) {
	if opKey == "" {
		opKey = uuid.NewString()
	}
	var n int64
	err := r.do(ctx, func() error {
		var err error
		n, err = r.inner.Increment(ctx, path, delta, opKey)
		return err
	})
	return n, err
}

func (r *RetryStore) OnChange(path string, fn func(changed string)) (cancel func()) {
	return r.inner.OnChange(path, fn)
}

func (r *RetryStore) do(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := range r.config.MaxAttempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err) || attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}
	return lastErr
}

// shouldRetry retries only database failures. Bad paths and context
// errors fail immediately.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return IsPersistence(err)
}

func (r *RetryStore) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
