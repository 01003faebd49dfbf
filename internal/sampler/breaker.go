package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/coreguard-systems/coreguard/pkg/types"
)

// BreakerConfig holds circuit breaker settings for a wrapped sampler.
type BreakerConfig struct {
	FailThreshold uint32        // consecutive failures before opening
	Cooldown      time.Duration // how long to stay open before probing
}

// DefaultBreakerConfig returns the default breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailThreshold: 5,
		Cooldown:      30 * time.Second,
	}
}

// Breaker wraps a Sampler with one circuit breaker per metric kind. A
// sampler that keeps failing is short-circuited to ErrUnavailable instead
// of being re-invoked on every tick, so a wedged sensor backend cannot
// stall the polling loop. ErrUnavailable results do not trip the breaker;
// they are an ordinary answer, not a fault.
type Breaker struct {
	inner  Sampler
	cfg    BreakerConfig
	logger *slog.Logger

	mu       sync.Mutex
	breakers map[types.MetricKind]*gobreaker.CircuitBreaker
}

// NewBreaker wraps inner with per-metric circuit breakers.
func NewBreaker(inner Sampler, cfg BreakerConfig, logger *slog.Logger) *Breaker {
	if cfg.FailThreshold == 0 {
		cfg.FailThreshold = DefaultBreakerConfig().FailThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultBreakerConfig().Cooldown
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Breaker{
		inner:    inner,
		cfg:      cfg,
		logger:   logger,
		breakers: make(map[types.MetricKind]*gobreaker.CircuitBreaker),
	}
}

// Sample delegates to the wrapped sampler through the metric's breaker.
func (b *Breaker) Sample(ctx context.Context, kind types.MetricKind) (types.MetricReading, error) {
	cb := b.breakerFor(kind)

	res, err := cb.Execute(func() (interface{}, error) {
		reading, err := b.inner.Sample(ctx, kind)
		if errors.Is(err, ErrUnavailable) {
			// Pass through without counting as a breaker failure.
			return types.MetricReading{}, nil
		}
		if err != nil {
			return nil, err
		}
		return reading, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return types.MetricReading{}, fmt.Errorf("%w: breaker open for %s", ErrUnavailable, kind)
		}
		return types.MetricReading{}, err
	}

	reading := res.(types.MetricReading)
	if reading.SampledAt.IsZero() {
		return types.MetricReading{}, ErrUnavailable
	}
	return reading, nil
}

func (b *Breaker) breakerFor(kind types.MetricKind) *gobreaker.CircuitBreaker {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cb, ok := b.breakers[kind]; ok {
		return cb
	}
	threshold := b.cfg.FailThreshold
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "sampler:" + string(kind),
		Timeout: b.cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warn("sampler breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	b.breakers[kind] = cb
	return cb
}
