package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("deadlock")

func isTransient(err error) bool { return errors.Is(err, errTransient) }

func TestDo_SucceedsAfterTransientErrors(t *testing.T) {
	calls := 0
	var retried []int

	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	},
		WithMaxAttempts(3),
		WithBaseDelay(time.Millisecond),
		WithRetryable(isTransient),
		WithOnRetry(func(attempt int, err error) { retried = append(retried, attempt) }),
	)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_PermanentErrorFailsFast(t *testing.T) {
	permanent := errors.New("constraint violated")
	calls := 0

	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	}, WithRetryable(isTransient), WithBaseDelay(time.Millisecond))

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0

	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errTransient
	}, WithMaxAttempts(4), WithBaseDelay(0), WithRetryable(isTransient))

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 4, calls)
}

func TestDo_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return errTransient
	}, WithMaxAttempts(5), WithBaseDelay(50*time.Millisecond), WithRetryable(isTransient))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestOptions_RejectInvalidValues(t *testing.T) {
	noop := func(ctx context.Context) error { return nil }

	assert.ErrorIs(t, Do(context.Background(), noop, WithMaxAttempts(0)), ErrInvalidMaxAttempts)
	assert.ErrorIs(t, Do(context.Background(), noop, WithBaseDelay(-time.Second)), ErrNegativeBaseDelay)
	assert.ErrorIs(t, Do(context.Background(), noop, WithJitterFactor(1.5)), ErrInvalidJitterFactor)
}
