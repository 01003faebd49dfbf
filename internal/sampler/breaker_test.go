package sampler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreguard-systems/coreguard/pkg/types"
)

// flakySampler fails a fixed number of times, then succeeds.
type flakySampler struct {
	failures int
	calls    int
}

func (f *flakySampler) Sample(_ context.Context, kind types.MetricKind) (types.MetricReading, error) {
	f.calls++
	if f.calls <= f.failures {
		return types.MetricReading{}, errors.New("sensor read failed")
	}
	return types.MetricReading{Kind: kind, Value: 42, SampledAt: time.Now()}, nil
}

func TestBreaker_PassesThroughHealthySampler(t *testing.T) {
	inner := &flakySampler{}
	b := NewBreaker(inner, DefaultBreakerConfig(), nil)

	reading, err := b.Sample(context.Background(), types.MetricCPUUsage)
	require.NoError(t, err)
	assert.Equal(t, 42.0, reading.Value)
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakySampler{failures: 100}
	b := NewBreaker(inner, BreakerConfig{FailThreshold: 3, Cooldown: time.Minute}, nil)

	for i := 0; i < 3; i++ {
		_, err := b.Sample(context.Background(), types.MetricCPUUsage)
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrUnavailable), "hard failures surface as-is while the breaker is closed")
	}

	// The breaker is open now: the inner sampler is no longer invoked and
	// the failure is downgraded to ErrUnavailable.
	callsBefore := inner.calls
	_, err := b.Sample(context.Background(), types.MetricCPUUsage)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, callsBefore, inner.calls)
}

func TestBreaker_RecoversAfterCooldown(t *testing.T) {
	inner := &flakySampler{failures: 2}
	b := NewBreaker(inner, BreakerConfig{FailThreshold: 2, Cooldown: 20 * time.Millisecond}, nil)

	for i := 0; i < 2; i++ {
		_, err := b.Sample(context.Background(), types.MetricCPUUsage)
		require.Error(t, err)
	}
	_, err := b.Sample(context.Background(), types.MetricCPUUsage)
	assert.True(t, errors.Is(err, ErrUnavailable), "open breaker reports unavailable")

	time.Sleep(30 * time.Millisecond)

	reading, err := b.Sample(context.Background(), types.MetricCPUUsage)
	require.NoError(t, err)
	assert.Equal(t, 42.0, reading.Value)
}

func TestBreaker_UnavailableDoesNotTrip(t *testing.T) {
	calls := 0
	inner := Func(func(context.Context, types.MetricKind) (types.MetricReading, error) {
		calls++
		return types.MetricReading{}, ErrUnavailable
	})
	b := NewBreaker(inner, BreakerConfig{FailThreshold: 2, Cooldown: time.Minute}, nil)

	// Far more unavailable answers than the threshold; the inner sampler
	// keeps being consulted because unavailability is not a fault.
	for i := 0; i < 10; i++ {
		_, err := b.Sample(context.Background(), types.MetricCPUUsage)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnavailable))
	}
	assert.Equal(t, 10, calls)
}

func TestBreaker_IsolatesMetricKinds(t *testing.T) {
	inner := Func(func(_ context.Context, kind types.MetricKind) (types.MetricReading, error) {
		if kind == types.MetricCPUUsage {
			return types.MetricReading{}, errors.New("cpu sensor wedged")
		}
		return types.MetricReading{Kind: kind, Value: 55, SampledAt: time.Now()}, nil
	})
	b := NewBreaker(inner, BreakerConfig{FailThreshold: 1, Cooldown: time.Minute}, nil)

	_, err := b.Sample(context.Background(), types.MetricCPUUsage)
	require.Error(t, err)
	_, err = b.Sample(context.Background(), types.MetricCPUUsage)
	assert.True(t, errors.Is(err, ErrUnavailable), "cpu breaker open")

	// Temperature has its own breaker and still works.
	reading, err := b.Sample(context.Background(), types.MetricTemperature)
	require.NoError(t, err)
	assert.Equal(t, 55.0, reading.Value)
}
