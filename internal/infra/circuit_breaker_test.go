package infra_test

import (
	"errors"
	"testing"
	"time"

	"github.com/StockSmart-AI/stock-smart-backend/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSidecarDown = errors.New("sidecar down")

func failing() error { return errSidecarDown }
func ok() error      { return nil }

func newCB(openTimeout time.Duration) *infra.CircuitBreaker {
	return infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      openTimeout,
	})
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := newCB(time.Minute)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(failing), errSidecarDown)
	}
	assert.Equal(t, infra.CBOpen, cb.State())

	// Open circuit fails fast without invoking fn.
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := newCB(time.Minute)

	require.Error(t, cb.Execute(failing))
	require.Error(t, cb.Execute(failing))
	require.NoError(t, cb.Execute(ok))
	require.Error(t, cb.Execute(failing))
	require.Error(t, cb.Execute(failing))

	// Never three in a row, so still closed.
	assert.Equal(t, infra.CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	cb := newCB(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(failing)
	}
	require.Equal(t, infra.CBOpen, cb.State())

	time.Sleep(15 * time.Millisecond)
	assert.Equal(t, infra.CBHalfOpen, cb.State())
}

func TestCircuitBreaker_ClosesAfterProbeSuccesses(t *testing.T) {
	cb := newCB(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(failing)
	}
	time.Sleep(15 * time.Millisecond)

	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, infra.CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, infra.CBClosed, cb.State())
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	cb := newCB(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(failing)
	}
	time.Sleep(15 * time.Millisecond)
	require.Equal(t, infra.CBHalfOpen, cb.State())

	assert.ErrorIs(t, cb.Execute(failing), errSidecarDown)
	assert.Equal(t, infra.CBOpen, cb.State())
}

func TestCBState_String(t *testing.T) {
	assert.Equal(t, "closed", infra.CBClosed.String())
	assert.Equal(t, "open", infra.CBOpen.String())
	assert.Equal(t, "half-open", infra.CBHalfOpen.String())
}
