package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete_ReturnsAssistantText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		resp := map[string]any{
			"id": "chatcmpl-1",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"name":"Carlos"}`}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient("test-key", "", 0)
	c.SetBaseURLs(srv.URL, "")

	out, err := c.Complete(context.Background(), "extract data", "soy Carlos")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Carlos"}`, out)
}

func TestComplete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"type":"rate_limit","message":"slow down"}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "", 0)
	c.SetBaseURLs(srv.URL, "")

	_, err := c.Complete(context.Background(), "sys", "msg")
	assert.Error(t, err)
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "", 0)
	c.SetBaseURLs(srv.URL, "")

	_, err := c.Complete(context.Background(), "sys", "msg")
	assert.Error(t, err)
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "voice.ogg", header.Filename)

		w.Write([]byte(`{"text":"quiero una cita mañana"}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "", 0)
	c.SetBaseURLs("", srv.URL)

	text, err := c.Transcribe(context.Background(), []byte("fake-audio"), "")
	require.NoError(t, err)
	assert.Equal(t, "quiero una cita mañana", text)
}

func TestIsConfigured(t *testing.T) {
	assert.True(t, NewClient("key", "", 0).IsConfigured())
	assert.False(t, NewClient("", "", 0).IsConfigured())
}
