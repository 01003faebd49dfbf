// Package sink implements event delivery to multiple destinations.
package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coreguard-systems/coreguard/internal/metrics"
	"github.com/coreguard-systems/coreguard/pkg/types"
)

// Default per-sink delivery timeout.
const sendTimeout = 10 * time.Second

// Sink is an event destination.
type Sink interface {
	Send(ctx context.Context, event types.Event) error
	Name() string
}

// Dispatcher routes monitor events to configured sinks.
type Dispatcher struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher from sink configs.
func NewDispatcher(configs []types.SinkConfig, logger *slog.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{logger: logger}
	for _, cfg := range configs {
		s, err := newSink(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating %s sink: %w", cfg.Type, err)
		}
		d.sinks = append(d.sinks, s)
	}
	return d, nil
}

// Dispatch sends an event to all configured sinks. Sink failures are
// logged and never propagate.
func (d *Dispatcher) Dispatch(event types.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	for _, s := range d.sinks {
		if err := s.Send(ctx, event); err != nil {
			metrics.SinkErrors.Add(1)
			d.logger.Error("sink send failed", "sink", s.Name(), "event", string(event.Kind), "error", err)
		}
	}
}

// Observer returns a callback suitable for monitor registration.
func (d *Dispatcher) Observer() func(types.Event) error {
	return func(event types.Event) error {
		d.Dispatch(event)
		return nil
	}
}

func newSink(cfg types.SinkConfig) (Sink, error) {
	switch cfg.Type {
	case types.SinkConsole:
		return NewConsoleSink(), nil
	case types.SinkFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file path required")
		}
		return NewFileSink(cfg.Path)
	case types.SinkWebhook:
		if cfg.URL == "" {
			return nil, fmt.Errorf("webhook URL required")
		}
		return NewWebhookSink(cfg.URL), nil
	case types.SinkSNS:
		return NewSNSSink(cfg.TopicARN)
	case types.SinkSQS:
		return NewSQSSink(cfg.QueueURL)
	case types.SinkS3:
		return NewS3Sink(cfg.Bucket, cfg.Prefix)
	case types.SinkCloudWatchLogs:
		return NewCloudWatchLogsSink(cfg.LogGroup, cfg.LogStream)
	case types.SinkEventBridge:
		return NewEventBridgeSink(cfg.EventBus)
	default:
		return nil, fmt.Errorf("unknown sink type %q", cfg.Type)
	}
}
