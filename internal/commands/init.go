package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/coreguard-systems/coreguard/internal/config"
)

const starterConfig = `# coreguard project configuration
interval: 5s
debugAddr: ":6060"

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
    terminateOnCritical: true
    signal: SIGTERM

sampler:
  breaker:
    enabled: true
    failThreshold: 5
    cooldown: 30s

sinks:
  - type: console
  - type: file
    path: coreguard-events.jsonl
#  - type: webhook
#    url: https://hooks.example.com/coreguard
#  - type: sns
#    topicArn: arn:aws:sns:us-east-1:123456789012:coreguard-events
#  - type: sqs
#    queueUrl: https://sqs.us-east-1.amazonaws.com/123456789012/coreguard-events
#  - type: s3
#    bucket: coreguard-archive
#    prefix: events
#  - type: cloudwatch-logs
#    logGroup: /coreguard/events
#    logStream: monitor
#  - type: eventbridge
#    eventBus: coreguard

#telemetry:
#  endpoint: localhost:4317
#  insecure: true
`

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter coreguard.yaml in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(".")
		},
	}
}

func runInit(dir string) error {
	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	color.Green("Created %s", path)
	fmt.Println("Edit the thresholds, then run: coreguard watch")
	return nil
}
