package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)

		sid, token, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC123", sid)
		assert.Equal(t, "tok", token)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "whatsapp:+15551234567", r.PostForm.Get("From"))
		assert.Equal(t, "whatsapp:+34600111222", r.PostForm.Get("To"))
		assert.Equal(t, "hola", r.PostForm.Get("Body"))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid": "SM1"}`))
	}))
	defer srv.Close()

	s := NewSender("AC123", "tok", "+15551234567")
	s.SetBaseURL(srv.URL)

	assert.NoError(t, s.Send(context.Background(), "+34600111222", "hola"))
}

func TestSend_StripsWhatsAppPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "whatsapp:+34600111222", r.PostForm.Get("To"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewSender("AC123", "tok", "+15551234567")
	s.SetBaseURL(srv.URL)

	assert.NoError(t, s.Send(context.Background(), "whatsapp:+34600111222", "hola"))
}

func TestSend_TrialModeSendsOneWarning(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		bodies = append(bodies, r.PostForm.Get("Body"))
		if len(bodies) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message": "Twilio trial: unverified number"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewSender("AC123", "tok", "+15551234567")
	s.SetBaseURL(srv.URL)

	err := s.Send(context.Background(), "+34600111222", "hola")
	assert.Error(t, err)
	// Original message, then exactly one warning.
	require.Len(t, bodies, 2)
	assert.Equal(t, "hola", bodies[0])
	assert.NotEqual(t, "hola", bodies[1])
}

func TestSend_OtherError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "authentication failed"}`))
	}))
	defer srv.Close()

	s := NewSender("AC123", "tok", "+15551234567")
	s.SetBaseURL(srv.URL)

	err := s.Send(context.Background(), "+34600111222", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
	assert.Equal(t, 1, calls)
}

func TestDownloadMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := r.BasicAuth()
		assert.True(t, ok)
		w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	s := NewSender("AC123", "tok", "+15551234567")
	data, err := s.DownloadMedia(context.Background(), srv.URL+"/media/ME1")
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-bytes"), data)
}

func TestIsConfigured(t *testing.T) {
	assert.True(t, NewSender("a", "b", "c").IsConfigured())
	assert.False(t, NewSender("", "b", "c").IsConfigured())
	assert.False(t, NewSender("a", "b", "").IsConfigured())
}
