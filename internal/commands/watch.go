package commands

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/coreguard-systems/coreguard/internal/config"
	"github.com/coreguard-systems/coreguard/internal/monitor"
	"github.com/coreguard-systems/coreguard/internal/sampler"
	"github.com/coreguard-systems/coreguard/internal/sink"
	"github.com/coreguard-systems/coreguard/internal/telemetry"
)

const stopTimeout = 15 * time.Second

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the resource monitor until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch()
		},
	}
}

func runWatch() error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.Default()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Sampler, optionally fused with a circuit breaker.
	var s sampler.Sampler = sampler.NewProc()
	if cfg.Breaker != nil {
		s = sampler.NewBreaker(s, *cfg.Breaker, logger)
	}

	// Sinks
	dispatcher, err := sink.NewDispatcher(cfg.Sinks, logger)
	if err != nil {
		return fmt.Errorf("creating sink dispatcher: %w", err)
	}

	// Telemetry (nil when no endpoint configured)
	tel, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// Monitor
	mon, err := monitor.New(cfg.Monitor, s, logger)
	if err != nil {
		return fmt.Errorf("creating monitor: %w", err)
	}
	mon.SetTelemetry(tel)
	mon.Register("sinks", dispatcher.Observer())

	mon.Start(ctx)

	g, ctx := errgroup.WithContext(ctx)

	// Debug server exposes the expvar counters.
	if cfg.DebugAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/debug/vars", expvar.Handler())
		srv := &http.Server{Addr: cfg.DebugAddr, Handler: mux}

		g.Go(func() error {
			logger.Info("debug server listening", "addr", cfg.DebugAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("debug server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
			defer cancel()
			return srv.Shutdown(shutCtx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		return nil
	})

	err = g.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	mon.Stop(stopCtx)
	if shutErr := tel.Shutdown(stopCtx); shutErr != nil {
		logger.Error("telemetry shutdown failed", "error", shutErr)
	}

	return err
}
