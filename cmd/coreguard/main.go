package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coreguard-systems/coreguard/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "coreguard",
		Short: "Host resource threshold monitor with guarded self-termination",
		Long: `Coreguard watches host CPU utilization and processor temperature,
debounces threshold breaches so transient spikes never raise alarms, and
notifies configured sinks on warning and critical edges. Under sustained
critical pressure it sends a termination signal to protect the hardware,
even if the rest of the application is unresponsive.`,
		Version: version,
	}

	root.AddCommand(
		commands.NewInitCmd(),
		commands.NewCheckCmd(),
		commands.NewWatchCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
