package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"

	"github.com/coreguard-systems/coreguard/pkg/types"
)

// EventBridgeAPI is the subset of the EventBridge client used by
// EventBridgeSink.
type EventBridgeAPI interface {
	PutEvents(ctx context.Context, input *eventbridge.PutEventsInput, opts ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// EventBridgeSink publishes events to an EventBridge bus.
type EventBridgeSink struct {
	client   EventBridgeAPI
	eventBus string
}

// EventBridgeSinkOption configures an EventBridgeSink.
type EventBridgeSinkOption func(*EventBridgeSink)

// WithEventBridgeClient sets a custom client (useful for testing).
func WithEventBridgeClient(c EventBridgeAPI) EventBridgeSinkOption {
	return func(s *EventBridgeSink) { s.client = c }
}

// NewEventBridgeSink creates a new EventBridge event sink. An empty bus
// name targets the account's default bus.
func NewEventBridgeSink(eventBus string, opts ...EventBridgeSinkOption) (*EventBridgeSink, error) {
	s := &EventBridgeSink{eventBus: eventBus}
	for _, o := range opts {
		o(s)
	}
	if s.client == nil {
		cfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		s.client = eventbridge.NewFromConfig(cfg)
	}
	return s, nil
}

// Name returns the sink identifier.
func (s *EventBridgeSink) Name() string { return "eventbridge" }

// Send publishes the event with detail-type set to the event kind.
func (s *EventBridgeSink) Send(ctx context.Context, event types.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	entry := ebtypes.PutEventsRequestEntry{
		Source:     aws.String("coreguard.monitor"),
		DetailType: aws.String(string(event.Kind)),
		Detail:     aws.String(string(data)),
	}
	if s.eventBus != "" {
		entry.EventBusName = aws.String(s.eventBus)
	}

	out, err := s.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []ebtypes.PutEventsRequestEntry{entry},
	})
	if err != nil {
		return fmt.Errorf("putting event to EventBridge: %w", err)
	}
	if out.FailedEntryCount > 0 {
		return fmt.Errorf("EventBridge rejected %d entries", out.FailedEntryCount)
	}
	return nil
}
