// Package sampler provides metric readings for the monitor. Real sensor
// access lives entirely behind the Sampler interface so the monitor core
// stays testable with synthetic readings.
package sampler

import (
	"context"
	"errors"

	"github.com/coreguard-systems/coreguard/pkg/types"
)

// ErrUnavailable reports that a metric cannot be read right now. The
// monitor treats it as a transient per-tick condition: the metric's tick
// is skipped without mutating its state.
var ErrUnavailable = errors.New("metric unavailable")

// Sampler supplies a reading for a metric kind. Implementations must be
// non-blocking or bounded-time; the monitor calls Sample once per metric
// per tick.
type Sampler interface {
	Sample(ctx context.Context, kind types.MetricKind) (types.MetricReading, error)
}

// Func adapts a function to the Sampler interface.
type Func func(ctx context.Context, kind types.MetricKind) (types.MetricReading, error)

// Sample calls f.
func (f Func) Sample(ctx context.Context, kind types.MetricKind) (types.MetricReading, error) {
	return f(ctx, kind)
}
