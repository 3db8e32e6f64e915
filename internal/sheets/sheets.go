// Package sheets appends completed bookings to a Google Sheets spreadsheet.
// The sink is optional: a missing credential or spreadsheet disables it
// without affecting the booking flow.
package sheets

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const appendRange = "A:H"

// Row is one persisted booking.
type Row struct {
	Identity   string
	Name       string
	Email      string
	BookedDate string
	Status     string
	Language   string
	Notes      string
}

// Sink appends booking rows to one spreadsheet.
type Sink struct {
	service       *sheets.Service
	spreadsheetID string
	now           func() time.Time
}

// NewSink builds a Sheets sink from a service-account credentials file.
// Returns nil when the spreadsheet or credentials are not configured;
// callers treat a nil sink as disabled.
func NewSink(ctx context.Context, spreadsheetID, credentialsFile string) (*Sink, error) {
	if spreadsheetID == "" || credentialsFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheets credentials: %w", err)
	}

	creds, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheets credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(creds.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Sink{
		service:       service,
		spreadsheetID: spreadsheetID,
		now:           time.Now,
	}, nil
}

// IsConfigured returns true if the sink can append rows.
func (s *Sink) IsConfigured() bool {
	return s != nil && s.service != nil && s.spreadsheetID != ""
}

// Append adds one booking row. Column order: contact timestamp, identity,
// name, email, booked date, status, language, notes.
func (s *Sink) Append(ctx context.Context, row Row) error {
	if !s.IsConfigured() {
		return nil
	}

	values := &sheets.ValueRange{
		Values: [][]any{{
			s.now().UTC().Format(time.RFC3339),
			row.Identity,
			row.Name,
			row.Email,
			row.BookedDate,
			row.Status,
			row.Language,
			row.Notes,
		}},
	}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, appendRange, values).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append booking row: %w", err)
	}
	return nil
}
