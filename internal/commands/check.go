package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/coreguard-systems/coreguard/internal/config"
	"github.com/coreguard-systems/coreguard/internal/monitor"
	"github.com/coreguard-systems/coreguard/internal/sampler"
	"github.com/coreguard-systems/coreguard/pkg/types"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Sample all configured metrics once and print their severity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck()
		},
	}
}

func runCheck() error {
	monCfg := types.DefaultMonitorConfig()
	if cfg, err := config.Load("."); err == nil {
		monCfg = cfg.Monitor
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := sampler.NewProc()

	// CPU utilization needs a delta baseline: prime it, then wait one
	// short window before the real read.
	for _, kind := range monCfg.Kinds() {
		_, _ = s.Sample(ctx, kind)
	}
	time.Sleep(500 * time.Millisecond)

	for _, kind := range monCfg.Kinds() {
		tc := monCfg.Thresholds[kind]
		reading, err := s.Sample(ctx, kind)
		if err != nil {
			fmt.Printf("%-14s %s\n", kind, color.HiBlackString("unavailable"))
			continue
		}
		sev := monitor.Classify(reading.Value, tc)
		fmt.Printf("%-14s %8.1f  %s\n", kind, reading.Value, severityLabel(sev))
	}
	return nil
}

func severityLabel(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return color.RedString("CRITICAL")
	case types.SeverityWarning:
		return color.YellowString("WARNING")
	default:
		return color.GreenString("NORMAL")
	}
}
