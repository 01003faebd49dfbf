// Package telemetry wires optional OpenTelemetry export for the monitor.
// When no collector endpoint is configured the nil *Telemetry is a no-op,
// so callers never need to branch.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/coreguard-systems/coreguard/pkg/types"
)

// Config selects the OTLP collector endpoint. An empty endpoint disables
// telemetry entirely.
type Config struct {
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

// Telemetry holds the metric and trace providers plus the monitor's
// instruments.
type Telemetry struct {
	meterProvider *sdkmetric.MeterProvider
	traceProvider *sdktrace.TracerProvider
	tracer        trace.Tracer

	ticks        metric.Int64Counter
	events       metric.Int64Counter
	terminations metric.Int64Counter
	unavailable  metric.Int64Counter
}

// Init connects the OTLP gRPC exporters and builds the monitor
// instruments. Returns (nil, nil) when no endpoint is configured.
func Init(ctx context.Context, cfg Config) (*Telemetry, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}

	res := resource.NewSchemaless(attribute.String("service.name", "coreguard"))

	metricOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
	traceOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		metricOpts = append(metricOpts, otlpmetricgrpc.WithInsecure())
		traceOpts = append(traceOpts, otlptracegrpc.WithInsecure())
	}

	metricExp, err := otlpmetricgrpc.New(ctx, metricOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP metric exporter: %w", err)
	}
	traceExp, err := otlptracegrpc.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
	}

	t := &Telemetry{
		meterProvider: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)),
		),
		traceProvider: sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithBatcher(traceExp),
		),
	}
	t.tracer = t.traceProvider.Tracer("coreguard/monitor")

	meter := t.meterProvider.Meter("coreguard/monitor")
	if t.ticks, err = meter.Int64Counter("coreguard.ticks"); err != nil {
		return nil, err
	}
	if t.events, err = meter.Int64Counter("coreguard.events"); err != nil {
		return nil, err
	}
	if t.terminations, err = meter.Int64Counter("coreguard.terminations"); err != nil {
		return nil, err
	}
	if t.unavailable, err = meter.Int64Counter("coreguard.samples_unavailable"); err != nil {
		return nil, err
	}
	return t, nil
}

// StartTick opens a span covering one monitor tick. The returned func ends
// the span and must be called when the tick finishes.
func (t *Telemetry) StartTick(ctx context.Context) (context.Context, func()) {
	if t == nil {
		return ctx, func() {}
	}
	ctx, span := t.tracer.Start(ctx, "monitor.tick")
	t.ticks.Add(ctx, 1)
	return ctx, func() { span.End() }
}

// RecordEvent counts a raised or cleared event by kind and metric.
func (t *Telemetry) RecordEvent(ctx context.Context, e types.Event) {
	if t == nil {
		return
	}
	t.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(e.Kind)),
		attribute.String("metric", string(e.Metric)),
	))
}

// RecordTermination counts an issued termination action.
func (t *Telemetry) RecordTermination(ctx context.Context, kind types.MetricKind) {
	if t == nil {
		return
	}
	t.terminations.Add(ctx, 1, metric.WithAttributes(attribute.String("metric", string(kind))))
}

// RecordUnavailable counts a skipped sample.
func (t *Telemetry) RecordUnavailable(ctx context.Context, kind types.MetricKind) {
	if t == nil {
		return
	}
	t.unavailable.Add(ctx, 1, metric.WithAttributes(attribute.String("metric", string(kind))))
}

// Shutdown flushes and stops both providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := t.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down meter provider: %w", err)
	}
	if err := t.traceProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down trace provider: %w", err)
	}
	return nil
}
