package sink

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/coreguard-systems/coreguard/pkg/types"
)

// ConsoleSink writes events to the terminal with color.
type ConsoleSink struct{}

// NewConsoleSink creates a new console event sink.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{}
}

// Name returns the sink identifier.
func (s *ConsoleSink) Name() string { return "console" }

// Send writes an event to the terminal with color-coded severity.
func (s *ConsoleSink) Send(_ context.Context, event types.Event) error {
	var prefix string
	switch event.Kind {
	case types.EventCriticalRaised:
		prefix = color.RedString("[CRITICAL]")
	case types.EventWarningRaised:
		prefix = color.YellowString("[WARNING]")
	default:
		prefix = color.GreenString("[CLEARED]")
	}
	fmt.Printf("%s [%s] %s\n", prefix, event.Metric, event.Message)
	return nil
}
