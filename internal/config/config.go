// Package config handles loading and validation of coreguard.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coreguard-systems/coreguard/internal/sampler"
	"github.com/coreguard-systems/coreguard/internal/telemetry"
	"github.com/coreguard-systems/coreguard/pkg/types"
)

// FileName is the project configuration file coreguard looks for.
const FileName = "coreguard.yaml"

// Config is the fully parsed and validated project configuration.
type Config struct {
	Monitor   types.MonitorConfig
	DebugAddr string
	Breaker   *sampler.BreakerConfig // nil disables the sampler breaker
	Sinks     []types.SinkConfig
	Telemetry telemetry.Config
}

// rawFile mirrors the YAML document; durations are strings parsed with
// time.ParseDuration during conversion.
type rawFile struct {
	Interval  string               `yaml:"interval"`
	DebugAddr string               `yaml:"debugAddr"`
	Metrics   map[string]rawMetric `yaml:"metrics"`
	Sampler   rawSampler           `yaml:"sampler"`
	Sinks     []types.SinkConfig   `yaml:"sinks"`
	Telemetry telemetry.Config     `yaml:"telemetry"`
}

type rawMetric struct {
	Warning             float64 `yaml:"warning"`
	Critical            float64 `yaml:"critical"`
	WarningSustain      string  `yaml:"warningSustain"`
	CriticalSustain     string  `yaml:"criticalSustain"`
	TerminateOnCritical bool    `yaml:"terminateOnCritical"`
	Signal              string  `yaml:"signal"`
}

type rawSampler struct {
	Breaker *rawBreaker `yaml:"breaker"`
}

type rawBreaker struct {
	Enabled       bool   `yaml:"enabled"`
	FailThreshold uint32 `yaml:"failThreshold"`
	Cooldown      string `yaml:"cooldown"`
}

// Load reads and parses coreguard.yaml from the given directory, failing
// fast on any invalid threshold or duration relationship.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg, err := convert(raw)
	if err != nil {
		return nil, err
	}
	if err := cfg.Monitor.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func convert(raw rawFile) (*Config, error) {
	interval, err := parseDuration("interval", raw.Interval)
	if err != nil {
		return nil, err
	}

	thresholds := make(map[types.MetricKind]types.ThresholdConfig, len(raw.Metrics))
	for name, rm := range raw.Metrics {
		warnSustain, err := parseDuration(name+".warningSustain", rm.WarningSustain)
		if err != nil {
			return nil, err
		}
		critSustain, err := parseDuration(name+".criticalSustain", rm.CriticalSustain)
		if err != nil {
			return nil, err
		}
		thresholds[types.MetricKind(name)] = types.ThresholdConfig{
			Warning:             rm.Warning,
			Critical:            rm.Critical,
			WarningSustain:      warnSustain,
			CriticalSustain:     critSustain,
			TerminateOnCritical: rm.TerminateOnCritical,
			Signal:              types.SignalKind(rm.Signal),
		}
	}

	cfg := &Config{
		Monitor: types.MonitorConfig{
			Interval:   interval,
			Thresholds: thresholds,
		},
		DebugAddr: raw.DebugAddr,
		Sinks:     raw.Sinks,
		Telemetry: raw.Telemetry,
	}

	if rb := raw.Sampler.Breaker; rb != nil && rb.Enabled {
		bc := sampler.DefaultBreakerConfig()
		if rb.FailThreshold > 0 {
			bc.FailThreshold = rb.FailThreshold
		}
		if rb.Cooldown != "" {
			cooldown, err := parseDuration("sampler.breaker.cooldown", rb.Cooldown)
			if err != nil {
				return nil, err
			}
			bc.Cooldown = cooldown
		}
		cfg.Breaker = &bc
	}

	return cfg, nil
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", field, d)
	}
	return d, nil
}
