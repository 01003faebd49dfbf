package sink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreguard-systems/coreguard/pkg/types"
)

func TestWebhookSink_Send(t *testing.T) {
	var gotMethod, gotContentType string
	var gotEvent types.Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotEvent))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := NewWebhookSink(server.URL)
	event := sampleEvent()
	require.NoError(t, s.Send(context.Background(), event))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, event.Metric, gotEvent.Metric)
	assert.Equal(t, event.EpisodeID, gotEvent.EpisodeID)
}

func TestWebhookSink_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewWebhookSink(server.URL)
	err := s.Send(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestWebhookSink_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	s := NewWebhookSink(server.URL)
	assert.Error(t, s.Send(context.Background(), sampleEvent()))
}
