// Package monitor implements the resource threshold monitor: a polling
// loop that samples host metrics, debounces threshold breaches through a
// per-metric escalation state machine, notifies observers on fired and
// cleared edges, and issues a guarded termination action on sustained
// critical pressure.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coreguard-systems/coreguard/internal/metrics"
	"github.com/coreguard-systems/coreguard/internal/sampler"
	"github.com/coreguard-systems/coreguard/internal/telemetry"
	"github.com/coreguard-systems/coreguard/pkg/types"
)

// Monitor drives one background worker over the sampler → classify →
// escalate → dispatch chain. All metric state is owned by that worker;
// external readers get copies via Status.
type Monitor struct {
	cfg        types.MonitorConfig
	sampler    sampler.Sampler
	terminator Terminator
	disp       dispatcher
	tel        *telemetry.Telemetry
	logger     *slog.Logger

	mu      sync.Mutex
	states  map[types.MetricKind]*metricState
	order   []types.MetricKind
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New validates the config and builds a monitor. The sampler is required;
// a nil logger falls back to slog.Default and a nil terminator to
// ProcessTerminator. Only construction can fail — a monitor that exists
// is startable.
func New(cfg types.MonitorConfig, s sampler.Sampler, logger *slog.Logger) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.New("sampler is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Monitor{
		cfg:        cfg,
		sampler:    s,
		terminator: ProcessTerminator{},
		disp:       dispatcher{logger: logger},
		logger:     logger,
		states:     make(map[types.MetricKind]*metricState, len(cfg.Thresholds)),
		order:      cfg.Kinds(),
	}
	for kind, tc := range cfg.Thresholds {
		m.states[kind] = newMetricState(kind, tc)
	}
	return m, nil
}

// SetTerminator replaces the termination executor. Must be called before
// Start.
func (m *Monitor) SetTerminator(t Terminator) {
	if t != nil {
		m.terminator = t
	}
}

// SetTelemetry attaches optional OpenTelemetry instrumentation. Must be
// called before Start.
func (m *Monitor) SetTelemetry(t *telemetry.Telemetry) {
	m.tel = t
}

// Register adds an observer under a name used in failure logs. Observers
// must be registered before Start; they are invoked in registration order.
func (m *Monitor) Register(name string, fn Observer) {
	m.disp.register(name, fn)
}

// Start launches the worker. Starting a running monitor is a logged
// no-op. Every metric state is re-initialized to Normal, so a stopped
// monitor can be started again cleanly.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		m.logger.Info("monitor already running, start ignored")
		return
	}
	for _, st := range m.states {
		st.reset()
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.running = true
	m.wg.Add(1)
	go m.run(ctx)
	m.logger.Info("monitor started", "interval", m.cfg.Interval, "metrics", len(m.order))
}

// Stop cancels the worker and waits for it to observe the cancellation,
// bounded by ctx. Worst-case stop latency is one interval. Stopping a
// stopped monitor is a no-op.
func (m *Monitor) Stop(ctx context.Context) {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		m.logger.Info("monitor stopped")
	case <-ctx.Done():
		m.logger.Warn("monitor stop timed out")
	}
}

// Status returns an immutable snapshot of every metric's state, in the
// monitor's deterministic metric order.
func (m *Monitor) Status() []types.MetricStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.MetricStatus, 0, len(m.order))
	for _, kind := range m.order {
		out = append(out, m.states[kind].status())
	}
	return out
}

func (m *Monitor) run(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	m.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

// tick processes every configured metric once, in deterministic order.
// State mutation happens under the monitor mutex; observer callbacks and
// the termination action run outside it, so an observer may safely query
// Status without deadlocking.
func (m *Monitor) tick(ctx context.Context) {
	metrics.TicksTotal.Add(1)
	ctx, endSpan := m.tel.StartTick(ctx)
	defer endSpan()

	now := time.Now()

	for _, kind := range m.order {
		if ctx.Err() != nil {
			return
		}

		reading, err := m.sampler.Sample(ctx, kind)
		if err != nil {
			metrics.SamplesUnavailable.Add(1)
			m.tel.RecordUnavailable(ctx, kind)
			if errors.Is(err, sampler.ErrUnavailable) {
				m.logger.Debug("sample unavailable, tick skipped", "metric", kind)
			} else {
				m.logger.Warn("sampler error, tick skipped", "metric", kind, "error", err)
			}
			continue
		}

		m.mu.Lock()
		st := m.states[kind]
		events := st.advance(reading.Value, m.cfg.Interval, now)
		terminate := false
		for _, e := range events {
			if e.Kind == types.EventCriticalRaised && st.cfg.TerminateOnCritical && !st.terminated {
				// Latch before issuing so the action can never repeat for
				// this metric, even if termination itself misbehaves.
				st.terminated = true
				terminate = true
			}
		}
		signal := st.cfg.Signal
		m.mu.Unlock()

		for _, e := range events {
			m.recordEvent(ctx, e)
			m.disp.dispatch(e)
		}
		if terminate {
			m.terminate(ctx, kind, signal)
		}
	}
}

func (m *Monitor) recordEvent(ctx context.Context, e types.Event) {
	m.tel.RecordEvent(ctx, e)
	switch e.Kind {
	case types.EventWarningRaised:
		metrics.WarningsRaised.Add(1)
		m.logger.Warn("warning raised", "metric", e.Metric, "value", e.Value, "episode", e.EpisodeID)
	case types.EventCriticalRaised:
		metrics.CriticalsRaised.Add(1)
		m.logger.Error("critical raised", "metric", e.Metric, "value", e.Value, "episode", e.EpisodeID)
	case types.EventCleared:
		metrics.EventsCleared.Add(1)
		m.logger.Info("cleared", "metric", e.Metric, "value", e.Value, "episode", e.EpisodeID)
	}
}

func (m *Monitor) terminate(ctx context.Context, kind types.MetricKind, signal types.SignalKind) {
	m.logger.Error("sustained critical pressure, issuing termination",
		"metric", kind, "signal", signal)
	if err := m.terminator.Terminate(kind, signal); err != nil {
		// Fatal for the monitor's purpose, but the loop keeps watching the
		// remaining metrics rather than halting itself.
		metrics.TerminationErrors.Add(1)
		m.logger.Error("termination action failed", "metric", kind, "signal", signal, "error", err)
		return
	}
	metrics.Terminations.Add(1)
	m.tel.RecordTermination(ctx, kind)
}
