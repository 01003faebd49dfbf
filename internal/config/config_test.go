package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreguard-systems/coreguard/internal/config"
	"github.com/coreguard-systems/coreguard/pkg/types"
)

const fullConfig = `interval: 5s
debugAddr: "127.0.0.1:8571"

metrics:
  cpu:
    warning: 95
    critical: 100
    warningSustain: 30s
    criticalSustain: 45s
    terminateOnCritical: true
    signal: SIGTERM
  temperature:
    warning: 80
    critical: 90
    warningSustain: 60s
    criticalSustain: 30s

sampler:
  breaker:
    enabled: true
    failThreshold: 3
    cooldown: 1m

sinks:
  - type: console
  - type: file
    path: /var/log/coreguard/events.jsonl

telemetry:
  endpoint: "localhost:4317"
  insecure: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644))
	return dir
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, fullConfig))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, "127.0.0.1:8571", cfg.DebugAddr)

	cpu := cfg.Monitor.Thresholds[types.MetricCPUUsage]
	assert.Equal(t, 95.0, cpu.Warning)
	assert.Equal(t, 100.0, cpu.Critical)
	assert.Equal(t, 30*time.Second, cpu.WarningSustain)
	assert.Equal(t, 45*time.Second, cpu.CriticalSustain)
	assert.True(t, cpu.TerminateOnCritical)
	assert.Equal(t, types.SignalTerm, cpu.Signal)

	temp := cfg.Monitor.Thresholds[types.MetricTemperature]
	assert.Equal(t, 80.0, temp.Warning)
	assert.False(t, temp.TerminateOnCritical)

	require.NotNil(t, cfg.Breaker)
	assert.Equal(t, uint32(3), cfg.Breaker.FailThreshold)
	assert.Equal(t, time.Minute, cfg.Breaker.Cooldown)

	require.Len(t, cfg.Sinks, 2)
	assert.Equal(t, types.SinkConsole, cfg.Sinks[0].Type)
	assert.Equal(t, "/var/log/coreguard/events.jsonl", cfg.Sinks[1].Path)

	assert.Equal(t, "localhost:4317", cfg.Telemetry.Endpoint)
	assert.True(t, cfg.Telemetry.Insecure)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "interval: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"missing interval",
			`metrics:
  cpu:
    warning: 95
    critical: 100
    warningSustain: 30s
    criticalSustain: 45s
`,
			"interval is required",
		},
		{
			"bad duration",
			`interval: soon
metrics:
  cpu:
    warning: 95
    critical: 100
    warningSustain: 30s
    criticalSustain: 45s
`,
			"parsing interval",
		},
		{
			"missing sustain",
			`interval: 5s
metrics:
  cpu:
    warning: 95
    critical: 100
    criticalSustain: 45s
`,
			"cpu.warningSustain is required",
		},
		{
			"critical below warning",
			`interval: 5s
metrics:
  cpu:
    warning: 95
    critical: 90
    warningSustain: 30s
    criticalSustain: 45s
`,
			"validating config",
		},
		{
			"interval longer than sustain",
			`interval: 2m
metrics:
  cpu:
    warning: 95
    critical: 100
    warningSustain: 30s
    criticalSustain: 45s
`,
			"validating config",
		},
		{
			"terminate without signal",
			`interval: 5s
metrics:
  cpu:
    warning: 95
    critical: 100
    warningSustain: 30s
    criticalSustain: 45s
    terminateOnCritical: true
`,
			"requires a signal",
		},
		{
			"no metrics",
			`interval: 5s
`,
			"at least one metric",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_BreakerDisabledByDefault(t *testing.T) {
	content := `interval: 5s
metrics:
  cpu:
    warning: 95
    critical: 100
    warningSustain: 30s
    criticalSustain: 45s
`
	cfg, err := config.Load(writeConfig(t, content))
	require.NoError(t, err)
	assert.Nil(t, cfg.Breaker)
}

func TestLoad_BreakerDefaultsWhenEnabled(t *testing.T) {
	content := `interval: 5s
metrics:
  cpu:
    warning: 95
    critical: 100
    warningSustain: 30s
    criticalSustain: 45s
sampler:
  breaker:
    enabled: true
`
	cfg, err := config.Load(writeConfig(t, content))
	require.NoError(t, err)
	require.NotNil(t, cfg.Breaker)
	assert.Equal(t, uint32(5), cfg.Breaker.FailThreshold)
	assert.Equal(t, 30*time.Second, cfg.Breaker.Cooldown)
}
