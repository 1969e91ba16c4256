package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenAITestServer(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIClient("sk-test", srv.URL+"/v1", "gpt-test", 0)
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-test",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]string{"role": "assistant", "content": content},
		}},
	})
}

func writeAPIError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": "nope", "type": "invalid_request_error", "code": "x"},
	})
}

func TestOpenAIClientComplete(t *testing.T) {
	var gotPrompt, gotModel, gotAuth string
	c := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotModel = body.Model
		gotPrompt = body.Messages[0].Content
		writeCompletion(w, " Y\n")
	})

	out, err := c.Complete(context.Background(), "is this spam?")
	require.NoError(t, err)
	assert.Equal(t, " Y\n", out)
	assert.Equal(t, "is this spam?", gotPrompt)
	assert.Equal(t, "gpt-test", gotModel)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "openai:gpt-test", c.Name())
}

func TestOpenAIClientSendsZeroTemperature(t *testing.T) {
	var body map[string]any
	c := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeCompletion(w, "N")
	})

	_, err := c.Complete(context.Background(), "p")
	require.NoError(t, err)
	require.Contains(t, body, "temperature")
	assert.InDelta(t, 0, body["temperature"], 1e-6)
}

func TestOpenAIClientSendsReportTemperature(t *testing.T) {
	var body map[string]any
	c := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeCompletion(w, "<p>ok</p>")
	})

	_, err := c.WithTemperature(0.7).Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, body["temperature"], 1e-6)
}

func TestOpenAIClientClassifiesFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Reason
	}{
		{"unauthorized", http.StatusUnauthorized, ReasonAuth},
		{"rate limited", http.StatusTooManyRequests, ReasonRateLimit},
		{"server error", http.StatusInternalServerError, ReasonUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeAPIError(w, tt.status)
			})
			_, err := c.Complete(context.Background(), "p")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrModelUnavailable))
			assert.Equal(t, tt.want, ReasonOf(err))
		})
	}
}

func TestOpenAIClientEmptyChoices(t *testing.T) {
	c := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	})
	_, err := c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, ReasonEmpty, ReasonOf(err))
}

func TestOpenAIClientTimeout(t *testing.T) {
	c := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	wrapped := Wrap(c, Timeout(50*time.Millisecond))

	_, err := wrapped.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelUnavailable))
	assert.Equal(t, ReasonTimeout, ReasonOf(err))
}

func TestOpenAIClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewOpenAIClient("sk", url+"/v1", "gpt-test", 0)
	_, err := c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, ReasonNetwork, ReasonOf(err))
}
