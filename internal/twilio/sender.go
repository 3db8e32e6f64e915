// Package twilio sends outbound WhatsApp messages and downloads inbound
// media through the Twilio REST API.
package twilio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rmateos/bookline/internal/responses"
)

const defaultAPIBase = "https://api.twilio.com"

// Sender delivers WhatsApp messages from one Twilio number.
type Sender struct {
	accountSID string
	authToken  string
	fromNumber string
	apiBase    string
	httpClient *http.Client
}

func NewSender(accountSID, authToken, fromNumber string) *Sender {
	return &Sender{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		apiBase:    defaultAPIBase,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL overrides the API base, used by tests.
func (s *Sender) SetBaseURL(base string) {
	if base != "" {
		s.apiBase = base
	}
}

// IsConfigured returns true if the sender has credentials and a number.
func (s *Sender) IsConfigured() bool {
	return s.accountSID != "" && s.authToken != "" && s.fromNumber != ""
}

// Send posts one WhatsApp message. On a trial-account "unverified number"
// rejection it sends a single supplementary warning and still reports the
// original send as failed.
func (s *Sender) Send(ctx context.Context, to, text string) error {
	err := s.send(ctx, to, text)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unverified number") {
		if warnErr := s.send(ctx, to, responses.Get(responses.TrialModeWarning, "en", nil)); warnErr != nil {
			fmt.Printf("Failed to send trial-mode warning to %s: %v\n", to, warnErr)
		}
	}
	return err
}

func (s *Sender) send(ctx context.Context, to, text string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.apiBase, s.accountSID)

	form := url.Values{}
	form.Set("From", "whatsapp:"+s.fromNumber)
	form.Set("To", "whatsapp:"+strings.TrimPrefix(to, "whatsapp:"))
	form.Set("Body", text)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("twilio API error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

// DownloadMedia fetches inbound media (voice notes) with account
// authentication.
func (s *Sender) DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media download error (status %d)", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
