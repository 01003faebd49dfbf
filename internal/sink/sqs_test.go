package sink

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreguard-systems/coreguard/pkg/types"
)

type mockSQS struct {
	inputs []*sqs.SendMessageInput
}

func (m *mockSQS) SendMessage(_ context.Context, input *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.inputs = append(m.inputs, input)
	return &sqs.SendMessageOutput{}, nil
}

func TestSQSSink_Send(t *testing.T) {
	mock := &mockSQS{}
	queueURL := "https://sqs.us-east-1.amazonaws.com/123456789012/coreguard-events"
	s, err := NewSQSSink(queueURL, WithSQSClient(mock))
	require.NoError(t, err)

	event := sampleEvent()
	require.NoError(t, s.Send(context.Background(), event))

	require.Len(t, mock.inputs, 1)
	input := mock.inputs[0]
	assert.Equal(t, queueURL, *input.QueueUrl)
	assert.Equal(t, "WARNING_RAISED", *input.MessageAttributes["kind"].StringValue)
	assert.Equal(t, "cpu", *input.MessageAttributes["metric"].StringValue)

	var got types.Event
	require.NoError(t, json.Unmarshal([]byte(*input.MessageBody), &got))
	assert.Equal(t, event.EpisodeID, got.EpisodeID)
}

func TestNewSQSSink_RequiresQueueURL(t *testing.T) {
	_, err := NewSQSSink("")
	require.Error(t, err)
}
