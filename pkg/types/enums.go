// Package types defines the public domain types for the coreguard resource monitor.
package types

// MetricKind identifies a monitored host metric.
type MetricKind string

// MetricKind values enumerate the built-in monitored metrics. The set is
// open: samplers and threshold maps may introduce further kinds.
const (
	MetricCPUUsage    MetricKind = "cpu"
	MetricTemperature MetricKind = "temperature"
)

// Severity classifies a single reading against configured thresholds.
// The order is total: Normal < Warning < Critical.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityCritical
)

// String returns the severity name used in logs and events.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "NORMAL"
	}
}

// SignalKind names the termination signal sent on sustained critical pressure.
type SignalKind string

// SignalKind values enumerate the supported termination signals.
const (
	SignalTerm SignalKind = "SIGTERM"
	SignalKill SignalKind = "SIGKILL"
	SignalUsr1 SignalKind = "SIGUSR1"
)

// EventKind classifies a monitor event.
type EventKind string

// EventKind values enumerate the events a monitor emits to observers.
const (
	EventWarningRaised  EventKind = "WARNING_RAISED"
	EventCriticalRaised EventKind = "CRITICAL_RAISED"
	EventCleared        EventKind = "CLEARED"
)

// SinkType defines the event sink backend.
type SinkType string

// SinkType values enumerate the supported event sink backends.
const (
	SinkConsole        SinkType = "console"
	SinkFile           SinkType = "file"
	SinkWebhook        SinkType = "webhook"
	SinkSNS            SinkType = "sns"
	SinkSQS            SinkType = "sqs"
	SinkS3             SinkType = "s3"
	SinkCloudWatchLogs SinkType = "cloudwatch-logs"
	SinkEventBridge    SinkType = "eventbridge"
)
