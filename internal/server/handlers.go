package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rmateos/bookline/internal/language"
)

// WhatsApp Webhook

// handleWhatsAppWebhook receives Twilio form posts. Media messages are
// treated as voice notes; the transport-level request is acknowledged even
// when pipeline processing fails, so Twilio does not re-deliver.
func (s *Server) handleWhatsAppWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	identity := strings.TrimPrefix(r.PostFormValue("From"), "whatsapp:")
	body := strings.TrimSpace(r.PostFormValue("Body"))
	mediaURL := r.PostFormValue("MediaUrl0")

	if identity == "" {
		respondError(w, http.StatusBadRequest, "missing From")
		return
	}

	ctx := r.Context()

	if mediaURL != "" {
		if err := s.handler.HandleVoice(ctx, identity, mediaURL); err != nil {
			fmt.Printf("Webhook: voice processing failed for %s: %v\n", identity, err)
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"status":  "success",
			"message": "Voice message processed",
		})
		return
	}

	if body == "" {
		respondJSON(w, http.StatusOK, map[string]string{
			"status":  "success",
			"message": "Empty message ignored",
		})
		return
	}

	if err := s.handler.HandleText(ctx, identity, body); err != nil {
		fmt.Printf("Webhook: text processing failed for %s: %v\n", identity, err)
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Text message processed",
	})
}

// Health Check

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(); err != nil {
			respondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":              "healthy",
		"timezone":            s.cfg.Timezone,
		"default_language":    language.Default,
		"supported_languages": language.Supported,
		"credentials": map[string]bool{
			"twilio": s.cfg.TwilioAccountSID != "" && s.cfg.TwilioAuthToken != "",
			"openai": s.cfg.OpenAIAPIKey != "",
			"cal":    s.cfg.CalAPIKey != "",
			"sheets": s.cfg.SheetsID != "" && s.cfg.SheetsCredentialsFile != "",
		},
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("Error encoding JSON response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
