package monitor

import (
	"log/slog"

	"github.com/coreguard-systems/coreguard/internal/metrics"
	"github.com/coreguard-systems/coreguard/pkg/types"
)

// Observer receives monitor events. Callbacks run synchronously on the
// monitor worker, in registration order; a slow observer delays the next
// tick accordingly. Returned errors are logged and do not stop delivery
// to remaining observers or to the termination path.
type Observer func(types.Event) error

type observer struct {
	name string
	fn   Observer
}

// dispatcher delivers events to registered observers, isolating observer
// failures (errors and panics) from the monitor and from each other.
type dispatcher struct {
	observers []observer
	logger    *slog.Logger
}

func (d *dispatcher) register(name string, fn Observer) {
	d.observers = append(d.observers, observer{name: name, fn: fn})
}

func (d *dispatcher) dispatch(event types.Event) {
	for _, obs := range d.observers {
		d.deliver(obs, event)
	}
}

func (d *dispatcher) deliver(obs observer, event types.Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.ObserverFailures.Add(1)
			d.logger.Error("observer panicked",
				"observer", obs.name, "event", string(event.Kind), "metric", event.Metric, "panic", r)
		}
	}()
	if err := obs.fn(event); err != nil {
		metrics.ObserverFailures.Add(1)
		d.logger.Error("observer failed",
			"observer", obs.name, "event", string(event.Kind), "metric", event.Metric, "error", err)
	}
}
