package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newTestBreaker(clock *time.Time) *CircuitBreaker {
	cb := New(Config{
		Name:                "test",
		FailureThreshold:    2,
		SuccessThreshold:    1,
		Timeout:             time.Minute,
		HalfOpenMaxRequests: 1,
	})
	cb.now = func() time.Time { return *clock }
	cb.stateChangedAt = *clock
	return cb
}

func fail(context.Context) error { return errBoom }
func ok(context.Context) error   { return nil }

func TestOpensAfterThreshold(t *testing.T) {
	clock := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&clock)
	ctx := context.Background()

	assert.ErrorIs(t, cb.Execute(ctx, fail), errBoom)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(ctx, fail), errBoom)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitBreakerOpen)
	assert.False(t, called)
}

func TestHalfOpenRecovers(t *testing.T) {
	clock := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&clock)
	ctx := context.Background()

	var transitions []string
	cb.config.OnStateChange = func(_ string, from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	}

	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, fail)
	clock = clock.Add(2 * time.Minute)

	require.NoError(t, cb.Execute(ctx, ok))
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, []string{"closed->open", "open->half_open", "half_open->closed"}, transitions)
}

func TestHalfOpenFailureReopens(t *testing.T) {
	clock := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&clock)
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, fail)
	clock = clock.Add(2 * time.Minute)

	assert.ErrorIs(t, cb.Execute(ctx, fail), errBoom)
	assert.Equal(t, StateOpen, cb.State())
}

func TestSuccessResetsFailures(t *testing.T) {
	clock := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&clock)
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, ok)
	_ = cb.Execute(ctx, fail)
	assert.Equal(t, StateClosed, cb.State())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
}
