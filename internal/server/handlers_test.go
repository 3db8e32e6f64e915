package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmateos/bookline/internal/config"
	"github.com/rmateos/bookline/internal/database"
)

type fakeHandler struct {
	texts  []string
	voices []string
}

func (f *fakeHandler) HandleText(_ context.Context, identity, text string) error {
	f.texts = append(f.texts, identity+"|"+text)
	return nil
}

func (f *fakeHandler) HandleVoice(_ context.Context, identity, mediaURL string) error {
	f.voices = append(f.voices, identity+"|"+mediaURL)
	return nil
}

func newTestServer(t *testing.T) (*Server, *fakeHandler) {
	t.Helper()
	handler := &fakeHandler{}
	s := New(ServerConfig{
		DB:      database.NewTestDB(t),
		Handler: handler,
		Config: &config.Config{
			TwilioAccountSID: "AC123",
			TwilioAuthToken:  "tok",
			CalAPIKey:        "cal-key",
			Timezone:         "America/New_York",
		},
		Port:     5000,
		Registry: prometheus.NewRegistry(),
	})
	return s, handler
}

func postForm(t *testing.T, s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestWebhook_TextMessage(t *testing.T) {
	s, handler := newTestServer(t)

	rec := postForm(t, s, "/webhook/whatsapp", url.Values{
		"From": {"whatsapp:+34600111222"},
		"Body": {"hola, quiero una cita"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, handler.texts, 1)
	assert.Equal(t, "+34600111222|hola, quiero una cita", handler.texts[0])
	assert.Empty(t, handler.voices)
}

func TestWebhook_VoiceMessage(t *testing.T) {
	s, handler := newTestServer(t)

	rec := postForm(t, s, "/webhook/whatsapp", url.Values{
		"From":      {"whatsapp:+34600111222"},
		"Body":      {""},
		"MediaUrl0": {"https://api.twilio.com/media/ME1"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, handler.voices, 1)
	assert.Equal(t, "+34600111222|https://api.twilio.com/media/ME1", handler.voices[0])
	assert.Empty(t, handler.texts)
}

func TestWebhook_MissingFrom(t *testing.T) {
	s, handler := newTestServer(t)

	rec := postForm(t, s, "/webhook/whatsapp", url.Values{"Body": {"hi"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, handler.texts)
}

func TestWebhook_EmptyBodyIgnored(t *testing.T) {
	s, handler := newTestServer(t)

	rec := postForm(t, s, "/webhook/whatsapp", url.Values{
		"From": {"whatsapp:+1"},
		"Body": {"   "},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, handler.texts)
}

func TestWebhook_RequiresPost(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/webhook/whatsapp", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status             string          `json:"status"`
		Timezone           string          `json:"timezone"`
		DefaultLanguage    string          `json:"default_language"`
		SupportedLanguages []string        `json:"supported_languages"`
		Credentials        map[string]bool `json:"credentials"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "America/New_York", body.Timezone)
	assert.Equal(t, "en", body.DefaultLanguage)
	assert.Equal(t, []string{"es", "en", "fr", "de", "it", "pt"}, body.SupportedLanguages)
	assert.True(t, body.Credentials["twilio"])
	assert.True(t, body.Credentials["cal"])
	assert.False(t, body.Credentials["openai"])
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
