package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendNotifier sends operator alert emails via the Resend API.
type ResendNotifier struct {
	client      *resend.Client
	fromAddress string
	toAddress   string
}

// NewResendNotifier creates a new Resend email notifier. Returns nil when
// no API key is configured; callers treat a nil notifier as disabled.
func NewResendNotifier(apiKey, from, to string) *ResendNotifier {
	if apiKey == "" {
		return nil
	}
	return &ResendNotifier{
		client:      resend.NewClient(apiKey),
		fromAddress: from,
		toAddress:   to,
	}
}

// IsConfigured returns true if the notifier has server-side config
func (r *ResendNotifier) IsConfigured() bool {
	return r != nil && r.client != nil && r.fromAddress != "" && r.toAddress != ""
}

// Send emails one booking alert to the operator.
func (r *ResendNotifier) Send(ctx context.Context, alert Alert) error {
	if r.toAddress == "" {
		return fmt.Errorf("no recipient specified")
	}

	subject := fmt.Sprintf("New booking: %s", alert.Name)
	if alert.Failed {
		subject = fmt.Sprintf("Booking failed for %s", alert.Identity)
	}

	params := &resend.SendEmailRequest{
		From:    r.fromAddress,
		To:      []string{r.toAddress},
		Subject: subject,
		Html:    r.formatEmailHTML(alert),
	}

	if _, err := r.client.Emails.Send(params); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	fmt.Printf("Operator alert sent to %s for %s\n", r.toAddress, alert.Identity)
	return nil
}

// Name returns the notifier name
func (r *ResendNotifier) Name() string {
	return "resend"
}

// formatEmailHTML creates the HTML email body
func (r *ResendNotifier) formatEmailHTML(alert Alert) string {
	badge := "Booking Confirmed"
	badgeColor := "#28a745"
	if alert.Failed {
		badge = "Booking Failed"
		badgeColor = "#dc3545"
	}

	meetingHTML := ""
	if alert.MeetingURL != "" {
		meetingHTML = fmt.Sprintf(`<p style="margin: 8px 0;"><strong>Meeting:</strong> <a href="%s">%s</a></p>`,
			alert.MeetingURL, alert.MeetingURL)
	}

	detailHTML := ""
	if alert.Detail != "" {
		detailHTML = fmt.Sprintf(`<p style="margin: 16px 0; color: #666; font-style: italic;">%s</p>`,
			html.EscapeString(alert.Detail))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
  <div style="background-color: white; border-radius: 8px; padding: 24px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <div style="margin-bottom: 16px;">
      <span style="background-color: %s; color: white; padding: 4px 12px; border-radius: 4px; font-size: 12px; font-weight: 600;">%s</span>
    </div>

    <h2 style="margin: 0 0 16px 0; color: #333;">%s</h2>

    <div style="background: #f8f9fa; padding: 16px; border-radius: 8px; margin: 16px 0; border-left: 4px solid #007bff;">
      <p style="margin: 8px 0;"><strong>WhatsApp:</strong> %s</p>
      <p style="margin: 8px 0;"><strong>Email:</strong> %s</p>
      <p style="margin: 8px 0;"><strong>Time:</strong> %s</p>
      <p style="margin: 8px 0;"><strong>Language:</strong> %s</p>
      %s
    </div>

    %s

    <hr style="margin-top: 32px; border: none; border-top: 1px solid #eee;">
    <p style="color: #999; font-size: 12px; margin-top: 16px;">
      Bookline - WhatsApp Appointment Agent<br>
      <span style="color: #ccc;">Sent at %s</span>
    </p>
  </div>
</body>
</html>`,
		badgeColor,
		badge,
		html.EscapeString(alert.Name),
		html.EscapeString(alert.Identity),
		html.EscapeString(alert.Email),
		alert.BookedTime,
		alert.Language,
		meetingHTML,
		detailHTML,
		time.Now().Format("Jan 2, 2006 3:04 PM"),
	)
}
