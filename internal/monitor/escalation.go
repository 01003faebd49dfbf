package monitor

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/coreguard-systems/coreguard/pkg/types"
)

// metricState is the per-metric escalation state machine. It is owned and
// mutated exclusively by the monitor worker; external readers only ever
// see copies via Status.
//
// Escalation is slow and de-escalation is fast on purpose: a tier fires
// only after pressure is sustained for its full debounce window, while any
// reading below the fired tier clears immediately. Alarms must be trusted
// slow, recoveries fast.
type metricState struct {
	kind types.MetricKind
	cfg  types.ThresholdConfig

	fired        types.Severity
	pendingTier  types.Severity // SeverityNormal when no window is open
	pendingSince time.Time
	episodeID    string
	terminated   bool

	lastValue   float64
	lastSampled time.Time
}

func newMetricState(kind types.MetricKind, cfg types.ThresholdConfig) *metricState {
	return &metricState{kind: kind, cfg: cfg}
}

// advance feeds one classified reading into the state machine and returns
// the events that fired on this tick. Events are edge-triggered: remaining
// in a fired tier emits nothing.
//
// A reading attests to pressure over the whole sampling interval that
// produced it, so a freshly opened window is backdated by one interval.
// Config validation guarantees interval <= sustain for both tiers, so the
// backdating never completes a window without at least one full interval
// of evidence.
func (s *metricState) advance(value float64, interval time.Duration, now time.Time) []types.Event {
	s.lastValue = value
	s.lastSampled = now

	sev := Classify(value, s.cfg)

	var events []types.Event

	// Any reading below the fired tier clears it immediately, no debounce.
	if s.fired > types.SeverityNormal && sev < s.fired {
		events = append(events, s.clearEvent(now))
		s.fired = types.SeverityNormal
		s.pendingTier = types.SeverityNormal
	}

	switch sev {
	case types.SeverityNormal:
		s.pendingTier = types.SeverityNormal

	case types.SeverityWarning:
		if s.fired == types.SeverityWarning {
			// Still warning-fired; abandon any critical window.
			s.pendingTier = types.SeverityNormal
			return events
		}
		if e := s.runWindow(types.SeverityWarning, s.cfg.WarningSustain, value, interval, now); e != nil {
			events = append(events, *e)
		}

	case types.SeverityCritical:
		if s.fired == types.SeverityCritical {
			return events
		}
		if e := s.runWindow(types.SeverityCritical, s.cfg.CriticalSustain, value, interval, now); e != nil {
			events = append(events, *e)
		}
	}

	return events
}

// runWindow opens or continues the debounce window for tier and returns
// the raised event when the window completes. Entering a window for a
// different tier than the one pending restarts the clock: sustain windows
// are per-tier, never inherited.
func (s *metricState) runWindow(tier types.Severity, sustain time.Duration, value float64, interval time.Duration, now time.Time) *types.Event {
	if s.pendingTier != tier {
		s.pendingTier = tier
		s.pendingSince = now.Add(-interval)
	}
	if now.Sub(s.pendingSince) < sustain {
		return nil
	}

	s.fired = tier
	s.pendingTier = types.SeverityNormal
	s.episodeID = ulid.Make().String()

	kind := types.EventWarningRaised
	threshold := s.cfg.Warning
	if tier == types.SeverityCritical {
		kind = types.EventCriticalRaised
		threshold = s.cfg.Critical
	}
	return &types.Event{
		Kind:      kind,
		Metric:    s.kind,
		Value:     value,
		Severity:  tier,
		EpisodeID: s.episodeID,
		Message: fmt.Sprintf("%s at %.1f sustained above %s threshold %.1f for %s",
			s.kind, value, tier, threshold, sustain),
		Timestamp: now,
	}
}

func (s *metricState) clearEvent(now time.Time) types.Event {
	e := types.Event{
		Kind:      types.EventCleared,
		Metric:    s.kind,
		Value:     s.lastValue,
		Severity:  types.SeverityNormal,
		EpisodeID: s.episodeID,
		Message:   fmt.Sprintf("%s back below %s tier at %.1f", s.kind, s.fired, s.lastValue),
		Timestamp: now,
	}
	s.episodeID = ""
	return e
}

// reset returns the state machine to its initial Normal state. Called on
// every monitor (re)start.
func (s *metricState) reset() {
	s.fired = types.SeverityNormal
	s.pendingTier = types.SeverityNormal
	s.pendingSince = time.Time{}
	s.episodeID = ""
	s.terminated = false
	s.lastValue = 0
	s.lastSampled = time.Time{}
}

// status returns an immutable snapshot of the state.
func (s *metricState) status() types.MetricStatus {
	st := types.MetricStatus{
		Kind:        s.kind,
		FiredTier:   s.fired,
		PendingTier: s.pendingTier,
		Terminated:  s.terminated,
		LastValue:   s.lastValue,
		LastSampled: s.lastSampled,
	}
	if s.pendingTier > types.SeverityNormal {
		st.PendingSince = s.pendingSince
	}
	return st
}
