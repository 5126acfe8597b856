package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// sleepRecorder captures backoff waits without blocking.
type sleepRecorder struct {
	sleeps []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.sleeps = append(r.sleeps, d)
	return nil
}

func TestBackoffRetryer_FirstAttemptSucceeds(t *testing.T) {
	rec := &sleepRecorder{}
	retryer := NewBackoffRetryer(&Policy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		Multiplier:   2.0,
		Sleep:        rec.sleep,
	}, zap.NewNop())

	callCount := 0
	result, err := retryer.DoWithResult(context.Background(), func() (any, error) {
		callCount++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, callCount)
	assert.Empty(t, rec.sleeps)
}

func TestBackoffRetryer_FailTwiceThenSucceed(t *testing.T) {
	rec := &sleepRecorder{}
	retryer := NewBackoffRetryer(&Policy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		Multiplier:   2.0,
		Sleep:        rec.sleep,
	}, zap.NewNop())

	callCount := 0
	result, err := retryer.DoWithResult(context.Background(), func() (any, error) {
		callCount++
		if callCount < 3 {
			return nil, errors.New("temporary error")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, callCount)
	// Exponential backoff: 2^0 then 2^1 units.
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, rec.sleeps)
}

func TestBackoffRetryer_SingleAttemptFailsImmediately(t *testing.T) {
	rec := &sleepRecorder{}
	retryer := NewBackoffRetryer(&Policy{
		MaxAttempts:  1,
		InitialDelay: 1 * time.Second,
		Multiplier:   2.0,
		Sleep:        rec.sleep,
	}, zap.NewNop())

	testErr := errors.New("persistent error")
	callCount := 0
	_, err := retryer.DoWithResult(context.Background(), func() (any, error) {
		callCount++
		return nil, testErr
	})

	require.Error(t, err)
	assert.Equal(t, 1, callCount)
	assert.Empty(t, rec.sleeps, "final attempt failure must not sleep")
	assert.ErrorIs(t, err, testErr)
	assert.Contains(t, err.Error(), "failed after 1 attempts")
}

func TestBackoffRetryer_AttemptsExhausted(t *testing.T) {
	rec := &sleepRecorder{}
	retryer := NewBackoffRetryer(&Policy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		Multiplier:   2.0,
		Sleep:        rec.sleep,
	}, zap.NewNop())

	testErr := errors.New("persistent error")
	callCount := 0
	_, err := retryer.DoWithResult(context.Background(), func() (any, error) {
		callCount++
		return nil, testErr
	})

	require.Error(t, err)
	assert.Equal(t, 3, callCount)
	assert.Len(t, rec.sleeps, 2)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.ErrorIs(t, err, testErr)
}

func TestBackoffRetryer_MaxDelayCap(t *testing.T) {
	rec := &sleepRecorder{}
	retryer := NewBackoffRetryer(&Policy{
		MaxAttempts:  5,
		InitialDelay: 1 * time.Second,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		Sleep:        rec.sleep,
	}, zap.NewNop())

	_, err := retryer.DoWithResult(context.Background(), func() (any, error) {
		return nil, errors.New("always fails")
	})

	require.Error(t, err)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second}, rec.sleeps)
}

func TestBackoffRetryer_OnRetryCallback(t *testing.T) {
	rec := &sleepRecorder{}
	var attempts []int
	retryer := NewBackoffRetryer(&Policy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		Multiplier:   2.0,
		Sleep:        rec.sleep,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			attempts = append(attempts, attempt)
		},
	}, zap.NewNop())

	_, err := retryer.DoWithResult(context.Background(), func() (any, error) {
		return nil, errors.New("always fails")
	})

	require.Error(t, err)
	assert.Equal(t, []int{0, 1}, attempts)
}

func TestBackoffRetryer_ContextCancelled(t *testing.T) {
	retryer := NewBackoffRetryer(&Policy{
		MaxAttempts:  5,
		InitialDelay: 1 * time.Second,
		Multiplier:   2.0,
		Sleep: func(ctx context.Context, d time.Duration) error {
			return context.Canceled
		},
	}, zap.NewNop())

	callCount := 0
	_, err := retryer.DoWithResult(context.Background(), func() (any, error) {
		callCount++
		return nil, errors.New("fails")
	})

	require.Error(t, err)
	assert.Equal(t, 1, callCount)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "retry cancelled")
}
