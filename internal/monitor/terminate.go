package monitor

import (
	"fmt"
	"os"
	"syscall"

	"github.com/coreguard-systems/coreguard/pkg/types"
)

// Terminator issues the protective termination action against the current
// process when a metric sustains critical pressure.
type Terminator interface {
	Terminate(metric types.MetricKind, signal types.SignalKind) error
}

// TerminatorFunc adapts a function to the Terminator interface.
type TerminatorFunc func(metric types.MetricKind, signal types.SignalKind) error

// Terminate calls f.
func (f TerminatorFunc) Terminate(metric types.MetricKind, signal types.SignalKind) error {
	return f(metric, signal)
}

// ProcessTerminator signals the current process. This is the default
// terminator: even if the host application is wedged, the signal gives the
// runtime (or the kernel, for SIGKILL) the chance to take it down before
// the hardware suffers.
type ProcessTerminator struct{}

// Terminate sends the configured signal to the current process.
func (ProcessTerminator) Terminate(metric types.MetricKind, signal types.SignalKind) error {
	sig, err := mapSignal(signal)
	if err != nil {
		return err
	}
	proc, err := os.FindProcess(os.Getpid())
	if err != nil {
		return fmt.Errorf("finding own process: %w", err)
	}
	if err := proc.Signal(sig); err != nil {
		return fmt.Errorf("sending %s for %s: %w", signal, metric, err)
	}
	return nil
}

func mapSignal(signal types.SignalKind) (os.Signal, error) {
	switch signal {
	case types.SignalTerm:
		return syscall.SIGTERM, nil
	case types.SignalKill:
		return syscall.SIGKILL, nil
	case types.SignalUsr1:
		return syscall.SIGUSR1, nil
	default:
		return nil, fmt.Errorf("unsupported signal %q", signal)
	}
}
