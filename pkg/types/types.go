package types

import (
	"fmt"
	"sort"
	"time"
)

// MetricReading is a single sampled value for a metric. Readings live for
// one tick only; the monitor never stores them.
type MetricReading struct {
	Kind      MetricKind
	Value     float64
	SampledAt time.Time
}

// ThresholdConfig holds the escalation thresholds for one metric kind.
// Boundary values belong to the higher tier (inclusive lower bound).
type ThresholdConfig struct {
	Warning             float64
	Critical            float64
	WarningSustain      time.Duration
	CriticalSustain     time.Duration
	TerminateOnCritical bool
	Signal              SignalKind
}

// MonitorConfig is the immutable aggregate a monitor is constructed with.
type MonitorConfig struct {
	Interval   time.Duration
	Thresholds map[MetricKind]ThresholdConfig
}

// Validate checks the threshold and interval relationships. A config that
// fails validation must never reach a running monitor.
func (c MonitorConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	if len(c.Thresholds) == 0 {
		return fmt.Errorf("at least one metric threshold is required")
	}
	for kind, t := range c.Thresholds {
		if t.Critical < t.Warning {
			return fmt.Errorf("metric %s: critical threshold %v below warning threshold %v", kind, t.Critical, t.Warning)
		}
		if t.WarningSustain <= 0 {
			return fmt.Errorf("metric %s: warningSustain must be positive, got %v", kind, t.WarningSustain)
		}
		if t.CriticalSustain <= 0 {
			return fmt.Errorf("metric %s: criticalSustain must be positive, got %v", kind, t.CriticalSustain)
		}
		if c.Interval > t.WarningSustain {
			return fmt.Errorf("metric %s: interval %v exceeds warningSustain %v", kind, c.Interval, t.WarningSustain)
		}
		if c.Interval > t.CriticalSustain {
			return fmt.Errorf("metric %s: interval %v exceeds criticalSustain %v", kind, c.Interval, t.CriticalSustain)
		}
		if t.TerminateOnCritical {
			switch t.Signal {
			case SignalTerm, SignalKill, SignalUsr1:
			case "":
				return fmt.Errorf("metric %s: terminateOnCritical requires a signal", kind)
			default:
				return fmt.Errorf("metric %s: unsupported signal %q", kind, t.Signal)
			}
		}
	}
	return nil
}

// Kinds returns the configured metric kinds in deterministic order.
func (c MonitorConfig) Kinds() []MetricKind {
	kinds := make([]MetricKind, 0, len(c.Thresholds))
	for k := range c.Thresholds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Event is a single monitor notification delivered to observers.
type Event struct {
	Kind      EventKind  `json:"kind"`
	Metric    MetricKind `json:"metric"`
	Value     float64    `json:"value"`
	Severity  Severity   `json:"-"`
	EpisodeID string     `json:"episodeId"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
}

// MetricStatus is an immutable snapshot of one metric's monitor state.
type MetricStatus struct {
	Kind         MetricKind
	FiredTier    Severity
	PendingTier  Severity
	PendingSince time.Time // zero when nothing is pending
	Terminated   bool
	LastValue    float64
	LastSampled  time.Time
}

// DefaultMonitorConfig returns the stock CPU/temperature thresholds.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Interval: 5 * time.Second,
		Thresholds: map[MetricKind]ThresholdConfig{
			MetricCPUUsage: {
				Warning:             95,
				Critical:            100,
				WarningSustain:      30 * time.Second,
				CriticalSustain:     45 * time.Second,
				TerminateOnCritical: true,
				Signal:              SignalTerm,
			},
			MetricTemperature: {
				Warning:             80,
				Critical:            90,
				WarningSustain:      60 * time.Second,
				CriticalSustain:     30 * time.Second,
				TerminateOnCritical: true,
				Signal:              SignalTerm,
			},
		},
	}
}
