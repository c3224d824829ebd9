package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails the first failures calls with err.
type flakyStore struct {
	ProgressStore
	failures int
	err      error
	calls    int
	keys     []string
}

func (f *flakyStore) Set(ctx context.Context, path string, value any) error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return f.ProgressStore.Set(ctx, path, value)
}

func (f *flakyStore) Increment(ctx context.Context, path string, delta int64, opKey string) (int64, error) {
	f.calls++
	f.keys = append(f.keys, opKey)
	if f.calls <= f.failures {
		// The write lands but the caller sees an error.
		if _, err := f.ProgressStore.Increment(ctx, path, delta, opKey); err != nil {
			return 0, err
		}
		return 0, f.err
	}
	return f.ProgressStore.Increment(ctx, path, delta, opKey)
}

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

func TestRetryRecoversFromPersistenceError(t *testing.T) {
	ds := openTestStore(t).Documents()
	flaky := &flakyStore{ProgressStore: ds, failures: 2, err: &PersistenceError{Op: "set", Path: "x", Err: errors.New("locked")}}
	ps := WithRetry(flaky, fastRetry())

	require.NoError(t, ps.Set(context.Background(), "x", "v"))
	assert.Equal(t, 3, flaky.calls)

	s, ok, err := GetString(context.Background(), ds, "x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", s)
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	ds := openTestStore(t).Documents()
	flaky := &flakyStore{ProgressStore: ds, failures: 10, err: &PersistenceError{Op: "set", Path: "x", Err: errors.New("disk")}}
	ps := WithRetry(flaky, fastRetry())

	err := ps.Set(context.Background(), "x", "v")
	require.Error(t, err)
	assert.True(t, IsPersistence(err))
	assert.Equal(t, 3, flaky.calls)
}

func TestRetrySkipsNonPersistenceErrors(t *testing.T) {
	ds := openTestStore(t).Documents()
	flaky := &flakyStore{ProgressStore: ds, failures: 10, err: ErrInvalidPath}
	ps := WithRetry(flaky, fastRetry())

	err := ps.Set(context.Background(), "x", "v")
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.Equal(t, 1, flaky.calls)
}

func TestRetryIncrementAppliesOnce(t *testing.T) {
	ds := openTestStore(t).Documents()
	flaky := &flakyStore{ProgressStore: ds, failures: 1, err: &PersistenceError{Op: "increment", Path: "n", Err: errors.New("timeout")}}
	ps := WithRetry(flaky, fastRetry())

	n, err := ps.Increment(context.Background(), "n", 1, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.Len(t, flaky.keys, 2)
	assert.NotEmpty(t, flaky.keys[0])
	assert.Equal(t, flaky.keys[0], flaky.keys[1], "retries must reuse the op key")

	stored, _, err := GetInt(context.Background(), ds, "n")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored)
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	ds := openTestStore(t).Documents()
	flaky := &flakyStore{ProgressStore: ds, failures: 10, err: &PersistenceError{Op: "set", Path: "x", Err: errors.New("locked")}}
	ps := WithRetry(flaky, RetryConfig{MaxAttempts: 5, InitialWait: time.Second, MaxWait: time.Second, Multiplier: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ps.Set(ctx, "x", "v")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, flaky.calls)
}
