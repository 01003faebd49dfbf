package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwltypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/coreguard-systems/coreguard/pkg/types"
)

// CloudWatchLogsAPI is the subset of the CloudWatch Logs client used by
// CloudWatchLogsSink.
type CloudWatchLogsAPI interface {
	PutLogEvents(ctx context.Context, input *cloudwatchlogs.PutLogEventsInput, opts ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// CloudWatchLogsSink writes events to a CloudWatch Logs stream.
type CloudWatchLogsSink struct {
	client    CloudWatchLogsAPI
	logGroup  string
	logStream string
}

// CloudWatchLogsSinkOption configures a CloudWatchLogsSink.
type CloudWatchLogsSinkOption func(*CloudWatchLogsSink)

// WithCloudWatchLogsClient sets a custom client (useful for testing).
func WithCloudWatchLogsClient(c CloudWatchLogsAPI) CloudWatchLogsSinkOption {
	return func(s *CloudWatchLogsSink) { s.client = c }
}

// NewCloudWatchLogsSink creates a new CloudWatch Logs event sink.
func NewCloudWatchLogsSink(logGroup, logStream string, opts ...CloudWatchLogsSinkOption) (*CloudWatchLogsSink, error) {
	if logGroup == "" {
		return nil, fmt.Errorf("CloudWatch log group required")
	}
	if logStream == "" {
		return nil, fmt.Errorf("CloudWatch log stream required")
	}
	s := &CloudWatchLogsSink{logGroup: logGroup, logStream: logStream}
	for _, o := range opts {
		o(s)
	}
	if s.client == nil {
		cfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		s.client = cloudwatchlogs.NewFromConfig(cfg)
	}
	return s, nil
}

// Name returns the sink identifier.
func (s *CloudWatchLogsSink) Name() string { return "cloudwatch-logs" }

// Send writes the event as a JSON log record.
func (s *CloudWatchLogsSink) Send(ctx context.Context, event types.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err = s.client.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(s.logGroup),
		LogStreamName: aws.String(s.logStream),
		LogEvents: []cwltypes.InputLogEvent{
			{
				Message:   aws.String(string(data)),
				Timestamp: aws.Int64(ts.UnixMilli()),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("putting log events: %w", err)
	}
	return nil
}
