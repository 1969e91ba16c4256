package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResendNotifierValidates(t *testing.T) {
	_, err := NewResendNotifier("", "from@alumind.app", "support@alumind.app")
	assert.Error(t, err)

	_, err = NewResendNotifier("re_key", "", "support@alumind.app")
	assert.Error(t, err)

	_, err = NewResendNotifier("re_key", "from@alumind.app")
	assert.Error(t, err)

	_, err = NewResendNotifier("re_key", "from@alumind.app", "", "  ")
	assert.Error(t, err)
}

func TestResendNotifierPublish(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "email_123"}`))
	}))
	defer srv.Close()

	n, err := NewResendNotifier("re_key", "relatorios@alumind.app", "support@alumind.app")
	require.NoError(t, err)
	n.client.BaseURL, err = url.Parse(srv.URL + "/")
	require.NoError(t, err)

	err = n.Publish(context.Background(), Message{
		Subject: "Relatório semanal de feedbacks - 2024-05-06",
		HTML:    "<h1>Relatório</h1>",
		RefID:   "run-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "relatorios@alumind.app", body["from"])
	assert.Equal(t, []any{"support@alumind.app"}, body["to"])
	assert.Equal(t, "Relatório semanal de feedbacks - 2024-05-06", body["subject"])
	assert.Equal(t, "<h1>Relatório</h1>", body["html"])
	assert.Equal(t, map[string]any{"X-Entity-Ref-ID": "run-1"}, body["headers"])
}

func TestResendNotifierPublishFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode": 422, "name": "validation_error", "message": "invalid from"}`))
	}))
	defer srv.Close()

	n, err := NewResendNotifier("re_key", "x@alumind.app", "support@alumind.app")
	require.NoError(t, err)
	n.client.BaseURL, _ = url.Parse(srv.URL + "/")

	err = n.Publish(context.Background(), Message{Subject: "s", HTML: "<p>x</p>"})
	assert.Error(t, err)
}

func TestLogNotifierNeverFails(t *testing.T) {
	assert.NoError(t, NewLogNotifier().Publish(context.Background(), Message{Subject: "s", HTML: "<p/>"}))
}
