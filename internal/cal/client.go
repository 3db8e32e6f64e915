// Package cal is a Cal.com API client covering booking creation (v2) and
// availability queries (v1).
package cal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rmateos/bookline/internal/timeutil"
)

const (
	defaultBookingURL      = "https://api.cal.com/v2/bookings"
	defaultAvailabilityURL = "https://api.cal.com/v1/availability"
	apiVersion             = "2024-06-14"
)

// Scheduler rejections that drive the retry policies.
var (
	ErrSlotTaken   = errors.New("requested slot is already taken")
	ErrOutOfBounds = errors.New("requested time is outside the booking window")
)

// Client talks to the Cal.com API.
type Client struct {
	apiKey          string
	eventTypeID     int
	accountUser     string
	timezone        string
	bookingURL      string
	availabilityURL string
	httpClient      *http.Client
}

// NewClient creates a Cal.com client for one event type.
func NewClient(apiKey string, eventTypeID int, accountUser, timezone string) *Client {
	return &Client{
		apiKey:          apiKey,
		eventTypeID:     eventTypeID,
		accountUser:     accountUser,
		timezone:        timezone,
		bookingURL:      defaultBookingURL,
		availabilityURL: defaultAvailabilityURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURLs overrides the API endpoints, used by tests.
func (c *Client) SetBaseURLs(bookingURL, availabilityURL string) {
	if bookingURL != "" {
		c.bookingURL = bookingURL
	}
	if availabilityURL != "" {
		c.availabilityURL = availabilityURL
	}
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// BookingParams describes one booking-creation request. Start and End are
// normalized UTC instants in the scheduler wire format.
type BookingParams struct {
	Start    string
	End      string
	Name     string
	Email    string
	Identity string
	Language string
}

// Booking is a created booking. UID may be empty when the provider response
// carried no locatable identifier; MeetingURL is always usable.
type Booking struct {
	UID        string
	BookingURL string
	MeetingURL string
}

type bookingRequest struct {
	EventTypeID int               `json:"eventTypeId"`
	Start       string            `json:"start"`
	End         string            `json:"end"`
	TimeZone    string            `json:"timeZone"`
	Language    string            `json:"language"`
	Responses   bookingResponses  `json:"responses"`
	Location    string            `json:"location"`
	Metadata    map[string]string `json:"metadata"`
	Status      string            `json:"status"`
}

type bookingResponses struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

// CreateBooking submits a booking to the v2 endpoint. Slot conflicts and
// out-of-window rejections are returned as ErrSlotTaken / ErrOutOfBounds so
// callers can drive their retry policies with errors.Is.
func (c *Client) CreateBooking(ctx context.Context, params BookingParams) (*Booking, error) {
	req := bookingRequest{
		EventTypeID: c.eventTypeID,
		Start:       params.Start,
		End:         params.End,
		TimeZone:    c.timezone,
		Language:    params.Language,
		Responses: bookingResponses{
			Name:  strings.TrimSpace(params.Name),
			Email: strings.TrimSpace(params.Email),
			Notes: "WhatsApp: " + params.Identity,
		},
		Location: "Google Meet",
		Metadata: map[string]string{
			"source":       "WhatsApp Voice Agent",
			"phone_number": params.Identity,
			"language":     params.Language,
		},
		Status: "ACCEPTED",
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.bookingURL, strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("cal-api-version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send booking request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return c.parseCreated(body), nil
	case strings.Contains(string(body), "no_available_users_found"):
		return nil, fmt.Errorf("%w: %s", ErrSlotTaken, params.Start)
	case strings.Contains(string(body), "booking_time_out_of_bounds"):
		return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, params.Start)
	default:
		return nil, fmt.Errorf("cal.com API error (status %d): %s", resp.StatusCode, string(body))
	}
}

func (c *Client) parseCreated(body []byte) *Booking {
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		data = nil
	}

	uid := findBookingID(data)
	b := &Booking{UID: uid}

	if s, ok := data["uri"].(string); ok {
		b.BookingURL = s
	}

	if uid != "" {
		b.MeetingURL = "https://app.cal.com/booking/" + uid
	} else {
		// No identifier anywhere in the response; point at the event page.
		b.MeetingURL = fmt.Sprintf("https://app.cal.com/%s/%d", c.accountUser, c.eventTypeID)
	}
	return b
}

// findBookingID locates a booking identifier: top-level uid/id first, then
// the "data" wrapper, then a full recursive search of the response body.
func findBookingID(data map[string]any) string {
	if data == nil {
		return ""
	}
	if id := stringValue(data["uid"]); id != "" {
		return id
	}
	if id := stringValue(data["id"]); id != "" {
		return id
	}
	if wrapper, ok := data["data"].(map[string]any); ok {
		if id := stringValue(wrapper["uid"]); id != "" {
			return id
		}
		if id := stringValue(wrapper["id"]); id != "" {
			return id
		}
	}
	return deepSearchID(data)
}

func deepSearchID(obj any) string {
	switch v := obj.(type) {
	case map[string]any:
		for _, key := range []string{"uid", "id", "bookingId"} {
			if id := stringValue(v[key]); id != "" {
				return id
			}
		}
		for _, child := range v {
			if id := deepSearchID(child); id != "" {
				return id
			}
		}
	case []any:
		for _, item := range v {
			if id := deepSearchID(item); id != "" {
				return id
			}
		}
	}
	return ""
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

type availabilityResponse struct {
	Slots []daySlots `json:"slots"`
}

type daySlots struct {
	Available bool     `json:"available"`
	Slots     []string `json:"slots"`
}

// NextAvailableSlot queries v1 availability for the window starting 15
// minutes after the given instant and spanning the configured number of
// days, and returns the first free slot. Returns "" with a nil error when
// the window has no free slots.
func (c *Client) NextAvailableSlot(ctx context.Context, fromWire string, days int) (string, error) {
	from, err := time.Parse(timeutil.WireFormat, fromWire)
	if err != nil {
		return "", fmt.Errorf("invalid slot instant %q: %w", fromWire, err)
	}

	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("eventTypeId", fmt.Sprintf("%d", c.eventTypeID))
	q.Set("startDate", from.Add(15*time.Minute).Format("2006-01-02"))
	q.Set("endDate", from.AddDate(0, 0, days).Format("2006-01-02"))
	q.Set("timeZone", c.timezone)

	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.availabilityURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to query availability: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("availability API error (status %d): %s", resp.StatusCode, string(body))
	}

	var avail availabilityResponse
	if err := json.Unmarshal(body, &avail); err != nil {
		return "", fmt.Errorf("failed to unmarshal availability: %w", err)
	}

	for _, day := range avail.Slots {
		if day.Available && len(day.Slots) > 0 {
			return day.Slots[0], nil
		}
	}
	return "", nil
}
