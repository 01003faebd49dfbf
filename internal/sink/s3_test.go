package sink

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreguard-systems/coreguard/pkg/types"
)

type mockS3 struct {
	inputs []*s3.PutObjectInput
	bodies []string
}

func (m *mockS3) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.inputs = append(m.inputs, input)
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	m.bodies = append(m.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink_Send(t *testing.T) {
	mock := &mockS3{}
	s, err := NewS3Sink("coreguard-archive", "events/", WithS3Client(mock))
	require.NoError(t, err)

	event := sampleEvent()
	require.NoError(t, s.Send(context.Background(), event))

	require.Len(t, mock.inputs, 1)
	input := mock.inputs[0]
	assert.Equal(t, "coreguard-archive", *input.Bucket)
	assert.Equal(t, "application/json", *input.ContentType)

	key := *input.Key
	assert.True(t, strings.HasPrefix(key, "events/2026-03-01/cpu/"), "key was %q", key)
	assert.True(t, strings.HasSuffix(key, "-WARNING_RAISED.json"), "key was %q", key)
	assert.Contains(t, mock.bodies[0], string(types.MetricCPUUsage))
}

func TestS3Sink_NoPrefix(t *testing.T) {
	mock := &mockS3{}
	s, err := NewS3Sink("coreguard-archive", "", WithS3Client(mock))
	require.NoError(t, err)

	require.NoError(t, s.Send(context.Background(), sampleEvent()))
	require.Len(t, mock.inputs, 1)
	assert.False(t, strings.HasPrefix(*mock.inputs[0].Key, "/"), "key must not start with a slash")
}

func TestNewS3Sink_RequiresBucket(t *testing.T) {
	_, err := NewS3Sink("", "events")
	require.Error(t, err)
}
