package conversation

import (
	"strings"

	"github.com/rmateos/bookline/internal/extract"
	"github.com/rmateos/bookline/internal/responses"
)

// Action tags what the caller should do with an Advance result.
type Action int

const (
	ActionGeneric Action = iota
	ActionLanguageChange
	ActionRequestName
	ActionRequestEmail
	ActionRequestDate
	ActionProceedBooking
)

func (a Action) String() string {
	switch a {
	case ActionGeneric:
		return "generic"
	case ActionLanguageChange:
		return "language_change"
	case ActionRequestName:
		return "request_name"
	case ActionRequestEmail:
		return "request_email"
	case ActionRequestDate:
		return "request_date"
	case ActionProceedBooking:
		return "proceed_booking"
	}
	return "unknown"
}

// Result is the outcome of advancing one conversation on one message.
type Result struct {
	Action   Action
	Message  string
	Language string
	Record   Record
}

// Substring-matched against the lowercased message. The list is fixed; it
// deliberately overlaps the language-detection keywords.
var bookingKeywords = []string{
	"appointment", "cita", "book", "schedule", "meeting", "demo",
	"consultation", "reservar", "agendar", "rdv", "rendez", "termin",
	"appuntamento", "encontro", "want", "like", "need",
}

// Requests to switch the conversation to Spanish, in every supported
// language.
var spanishRequests = []string{
	"habla en español",
	"speak in spanish",
	"parlez en espagnol",
	"spreche auf spanisch",
	"parla in spagnolo",
	"fale em espanhol",
	"quiero español",
	"want spanish",
	"prefiero español",
}

// Machine advances conversation records. It owns all record mutation; the
// booking layer only ever sees snapshots.
type Machine struct {
	store *Store
}

func NewMachine(store *Store) *Machine {
	return &Machine{store: store}
}

// Store exposes the underlying session store for lifecycle operations
// (snapshotting and post-booking deletion).
func (m *Machine) Store() *Store {
	return m.store
}

// Advance merges freshly extracted data into the identity's record and
// decides the next step. The first missing field wins: name, then email,
// then date. When all three are present the caller proceeds to booking.
func (m *Machine) Advance(identity, message, language string, extracted extract.Extraction) Result {
	messageLower := strings.ToLower(strings.TrimSpace(message))

	if isSpanishRequest(messageLower) {
		rec := m.store.update(identity, func(r *Record) {
			r.Language = "es"
		})
		return Result{
			Action:   ActionLanguageChange,
			Message:  responses.Get(responses.LanguageChange, language, nil),
			Language: "es",
			Record:   rec,
		}
	}

	name := extract.Clean(extracted.Name)
	email := extract.Clean(extracted.Email)
	date := extract.Clean(extracted.DatePhrase)

	var action Action
	rec := m.store.update(identity, func(r *Record) {
		r.Language = language

		if name != "" {
			r.Collected.Name = name
		}
		if email != "" {
			r.Collected.Email = email
		}
		if date != "" {
			r.Collected.DatePhrase = date
		}

		inFlow := r.State > StateInitial
		anyField := r.Collected.Name != "" || r.Collected.Email != "" || r.Collected.DatePhrase != ""
		if !inFlow && !anyField && !hasBookingIntent(messageLower) {
			action = ActionGeneric
			return
		}

		r.advanceState(StateBookingStarted)
		switch {
		case r.Collected.Name == "":
			r.advanceState(StateWaitingName)
			action = ActionRequestName
		case r.Collected.Email == "":
			r.advanceState(StateWaitingEmail)
			action = ActionRequestEmail
		case r.Collected.DatePhrase == "":
			r.advanceState(StateWaitingDate)
			action = ActionRequestDate
		default:
			r.advanceState(StateBookingCompleted)
			action = ActionProceedBooking
		}
	})

	return Result{
		Action:   action,
		Message:  messageFor(action, language, rec),
		Language: language,
		Record:   rec,
	}
}

func messageFor(action Action, language string, rec Record) string {
	switch action {
	case ActionRequestName:
		return responses.Get(responses.DataExtractionReq, language, nil)
	case ActionRequestEmail:
		return responses.Get(responses.AskForEmail, language, map[string]string{
			"name": rec.Collected.Name,
		})
	case ActionRequestDate:
		return responses.Get(responses.AskForDate, language, map[string]string{
			"name": rec.Collected.Name,
		})
	case ActionProceedBooking:
		return responses.Get(responses.DataExtracted, language, map[string]string{
			"name":  rec.Collected.Name,
			"email": rec.Collected.Email,
			"date":  rec.Collected.DatePhrase,
		})
	default:
		return responses.Get(responses.Generic, language, nil)
	}
}

func isSpanishRequest(messageLower string) bool {
	for _, phrase := range spanishRequests {
		if strings.Contains(messageLower, phrase) {
			return true
		}
	}
	return false
}

func hasBookingIntent(messageLower string) bool {
	for _, kw := range bookingKeywords {
		if strings.Contains(messageLower, kw) {
			return true
		}
	}
	return false
}
