package sampler

import (
	"context"
	"sync"
	"time"

	"github.com/coreguard-systems/coreguard/pkg/types"
)

// Static serves fixed values per metric kind. Useful for demos and tests;
// values may be updated while a monitor is running.
type Static struct {
	mu     sync.RWMutex
	values map[types.MetricKind]float64
}

// NewStatic creates a static sampler from an initial value map.
func NewStatic(values map[types.MetricKind]float64) *Static {
	v := make(map[types.MetricKind]float64, len(values))
	for k, val := range values {
		v[k] = val
	}
	return &Static{values: v}
}

// Set updates the value served for a metric kind.
func (s *Static) Set(kind types.MetricKind, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[kind] = value
}

// Sample returns the configured value, or ErrUnavailable for unknown kinds.
func (s *Static) Sample(_ context.Context, kind types.MetricKind) (types.MetricReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[kind]
	if !ok {
		return types.MetricReading{}, ErrUnavailable
	}
	return types.MetricReading{Kind: kind, Value: value, SampledAt: time.Now()}, nil
}
