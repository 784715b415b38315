package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fastOpts(maxAttempts int) []Option {
	return []Option{
		WithMaxAttempts(maxAttempts),
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(5 * time.Millisecond),
		WithJitter(0),
	}
}

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("success on first attempt", func(t *testing.T) {
		calls := 0
		err := Do(ctx, func(ctx context.Context) error {
			calls++
			return nil
		}, fastOpts(3)...)

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retryable error is retried until success", func(t *testing.T) {
		calls := 0
		err := Do(ctx, func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return Retryable(errBoom)
			}
			return nil
		}, fastOpts(5)...)

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("plain error is not retried by default", func(t *testing.T) {
		calls := 0
		err := Do(ctx, func(ctx context.Context) error {
			calls++
			return errBoom
		}, fastOpts(3)...)

		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, 1, calls)
	})

	t.Run("exhausted attempts unwrap the retryable error", func(t *testing.T) {
		calls := 0
		err := Do(ctx, func(ctx context.Context) error {
			calls++
			return Retryable(errBoom)
		}, fastOpts(3)...)

		assert.Equal(t, 3, calls)
		assert.Equal(t, errBoom, err)
	})

	t.Run("permanent error stops immediately", func(t *testing.T) {
		calls := 0
		opts := append(fastOpts(5), WithRetryIf(func(err error) bool { return !IsPermanent(err) }))
		err := Do(ctx, func(ctx context.Context) error {
			calls++
			return Permanent(errBoom)
		}, opts...)

		assert.Equal(t, 1, calls)
		assert.Equal(t, errBoom, err)
	})

	t.Run("custom RetryIf overrides default", func(t *testing.T) {
		calls := 0
		opts := append(fastOpts(3), WithRetryIf(func(err error) bool { return true }))
		err := Do(ctx, func(ctx context.Context) error {
			calls++
			return errBoom
		}, opts...)

		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, 3, calls)
	})

	t.Run("cancelled context returns last error", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		calls := 0
		err := Do(cancelCtx, func(ctx context.Context) error {
			calls++
			cancel()
			return Retryable(errBoom)
		}, fastOpts(5)...)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("OnRetry observes each retry", func(t *testing.T) {
		var attempts []int
		opts := append(fastOpts(3), WithOnRetry(func(attempt int, err error, delay time.Duration) {
			attempts = append(attempts, attempt)
		}))
		_ = Do(ctx, func(ctx context.Context) error {
			return Retryable(errBoom)
		}, opts...)

		assert.Equal(t, []int{1, 2}, attempts)
	})
}

func TestDoWithData(t *testing.T) {
	ctx := context.Background()

	calls := 0
	got, err := DoWithData(ctx, func(ctx context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", Retryable(errBoom)
		}
		return "ok", nil
	}, fastOpts(3)...)

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}

func TestErrorWrapping(t *testing.T) {
	assert.Nil(t, Retryable(nil))
	assert.Nil(t, Permanent(nil))

	wrapped := Retryable(errBoom)
	assert.True(t, IsRetryable(wrapped))
	assert.False(t, IsPermanent(wrapped))
	assert.ErrorIs(t, wrapped, errBoom)

	perm := Permanent(errBoom)
	assert.True(t, IsPermanent(perm))
	assert.False(t, IsRetryable(perm))
	assert.ErrorIs(t, perm, errBoom)
}

func TestCalculateDelay(t *testing.T) {
	r := New(
		WithInitialDelay(100*time.Millisecond),
		WithMaxDelay(time.Second),
		WithMultiplier(2.0),
		WithJitter(0),
	)

	assert.Equal(t, 100*time.Millisecond, r.calculateDelay(1))
	assert.Equal(t, 200*time.Millisecond, r.calculateDelay(2))
	assert.Equal(t, 400*time.Millisecond, r.calculateDelay(3))
	// Capped at MaxDelay.
	assert.Equal(t, time.Second, r.calculateDelay(10))
}
