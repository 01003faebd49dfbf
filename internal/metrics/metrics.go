// Package metrics exposes runtime counters via expvar.
package metrics

import "expvar"

var (
	TicksTotal         = expvar.NewInt("ticks_total")
	SamplesUnavailable = expvar.NewInt("samples_unavailable")
	WarningsRaised     = expvar.NewInt("warnings_raised")
	CriticalsRaised    = expvar.NewInt("criticals_raised")
	EventsCleared      = expvar.NewInt("events_cleared")
	Terminations       = expvar.NewInt("terminations")
	TerminationErrors  = expvar.NewInt("termination_errors")
	ObserverFailures   = expvar.NewInt("observer_failures")
	SinkErrors         = expvar.NewInt("sink_errors")
)
