// Package agent orchestrates the message pipeline: language detection,
// data extraction, conversation state, booking, and all side effects.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rmateos/bookline/internal/booking"
	"github.com/rmateos/bookline/internal/conversation"
	"github.com/rmateos/bookline/internal/database"
	"github.com/rmateos/bookline/internal/extract"
	"github.com/rmateos/bookline/internal/language"
	"github.com/rmateos/bookline/internal/notify"
	"github.com/rmateos/bookline/internal/observability/metrics"
	"github.com/rmateos/bookline/internal/responses"
	"github.com/rmateos/bookline/internal/sheets"
)

// Extractor pulls booking fields out of one message.
type Extractor interface {
	Extract(ctx context.Context, message, lang string) extract.Extraction
}

// Booker runs the booking attempt chain.
type Booker interface {
	Book(ctx context.Context, req booking.Request) booking.Result
}

// Messenger sends outbound WhatsApp messages.
type Messenger interface {
	Send(ctx context.Context, to, text string) error
}

// Transcriber converts voice notes to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
	IsConfigured() bool
}

// MediaDownloader fetches inbound media with provider auth.
type MediaDownloader interface {
	DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error)
}

// Agent wires the pipeline together. The database, sheet sink, notifier
// and metrics are optional side effects: each may be nil.
type Agent struct {
	extractor   Extractor
	machine     *conversation.Machine
	booker      Booker
	messenger   Messenger
	transcriber Transcriber
	downloader  MediaDownloader
	db          *database.DB
	sheet       *sheets.Sink
	notifier    *notify.Service
	metrics     *metrics.AgentMetrics
}

type Options struct {
	Extractor   Extractor
	Machine     *conversation.Machine
	Booker      Booker
	Messenger   Messenger
	Transcriber Transcriber
	Downloader  MediaDownloader
	DB          *database.DB
	Sheet       *sheets.Sink
	Notifier    *notify.Service
	Metrics     *metrics.AgentMetrics
}

func New(opts Options) *Agent {
	return &Agent{
		extractor:   opts.Extractor,
		machine:     opts.Machine,
		booker:      opts.Booker,
		messenger:   opts.Messenger,
		transcriber: opts.Transcriber,
		downloader:  opts.Downloader,
		db:          opts.DB,
		sheet:       opts.Sheet,
		notifier:    opts.Notifier,
		metrics:     opts.Metrics,
	}
}

// HandleText runs one inbound text message through the full pipeline.
func (a *Agent) HandleText(ctx context.Context, identity, text string) error {
	started := time.Now()
	defer func() {
		a.metrics.ObserveWebhookLatency("text", time.Since(started).Seconds())
	}()

	lang := language.Detect(text)
	a.metrics.ObserveInbound("text", lang)
	a.logMessage(identity, database.DirectionInbound, text, lang)

	extracted := a.extractor.Extract(ctx, text, lang)
	result := a.machine.Advance(identity, text, lang, extracted)

	if result.Action != conversation.ActionProceedBooking {
		return a.reply(ctx, identity, result.Message, result.Language)
	}

	return a.completeBooking(ctx, result)
}

// HandleVoice downloads and transcribes a voice note, then treats the
// transcription as an ordinary text message.
func (a *Agent) HandleVoice(ctx context.Context, identity, mediaURL string) error {
	started := time.Now()
	defer func() {
		a.metrics.ObserveWebhookLatency("voice", time.Since(started).Seconds())
	}()

	if a.transcriber == nil || !a.transcriber.IsConfigured() || a.downloader == nil {
		return a.reply(ctx, identity, responses.Get(responses.Generic, language.Default, nil), language.Default)
	}

	audio, err := a.downloader.DownloadMedia(ctx, mediaURL)
	if err != nil {
		fmt.Printf("Failed to download voice note from %s: %v\n", identity, err)
		return a.reply(ctx, identity, responses.Get(responses.Generic, language.Default, nil), language.Default)
	}

	text, err := a.transcriber.Transcribe(ctx, audio, "")
	if err != nil || strings.TrimSpace(text) == "" {
		fmt.Printf("Failed to transcribe voice note from %s: %v\n", identity, err)
		return a.reply(ctx, identity, responses.Get(responses.Generic, language.Default, nil), language.Default)
	}

	return a.HandleText(ctx, identity, text)
}

// completeBooking runs the reconciler against the completed conversation
// and fans out the side effects. The conversation record is deleted only
// after a successful booking.
func (a *Agent) completeBooking(ctx context.Context, conv conversation.Result) error {
	rec := conv.Record

	// Confirmation of the collected data goes out before the booking calls.
	if err := a.reply(ctx, rec.Identity, conv.Message, conv.Language); err != nil {
		fmt.Printf("Failed to send confirmation to %s: %v\n", rec.Identity, err)
	}

	res := a.booker.Book(ctx, booking.Request{
		Name:       rec.Collected.Name,
		Email:      rec.Collected.Email,
		DatePhrase: rec.Collected.DatePhrase,
		Identity:   rec.Identity,
		Language:   conv.Language,
	})

	if !res.Success {
		a.metrics.ObserveBooking("failed")
		fmt.Printf("Booking failed for %s: %v\n", rec.Identity, res.Err)

		message := res.Message
		if message == "" {
			message = responses.Get(responses.BookingError, conv.Language, nil)
		}

		a.recordBooking(rec, conv.Language, res, database.BookingFailed)
		a.notifyOperator(ctx, rec, conv.Language, res, true)
		return a.reply(ctx, rec.Identity, message, conv.Language)
	}

	a.metrics.ObserveBooking("confirmed")

	success := responses.Get(responses.AppointmentScheduled, conv.Language, responses.Params{
		"meeting_url": res.MeetingURL,
	})
	if err := a.reply(ctx, rec.Identity, success, conv.Language); err != nil {
		fmt.Printf("Failed to send booking confirmation to %s: %v\n", rec.Identity, err)
	}

	a.recordBooking(rec, conv.Language, res, database.BookingConfirmed)
	a.appendSheetRow(ctx, rec, conv.Language, res)
	a.notifyOperator(ctx, rec, conv.Language, res, false)

	// A completed booking ends the conversation.
	a.machine.Store().Delete(rec.Identity)
	return nil
}

func (a *Agent) reply(ctx context.Context, identity, text, lang string) error {
	if text == "" {
		return nil
	}
	a.logMessage(identity, database.DirectionOutbound, text, lang)
	if a.messenger == nil {
		return nil
	}
	return a.messenger.Send(ctx, identity, text)
}

func (a *Agent) logMessage(identity, direction, body, lang string) {
	if a.db == nil {
		return
	}
	if err := a.db.LogMessage(identity, direction, body, lang); err != nil {
		fmt.Printf("Failed to log %s message for %s: %v\n", direction, identity, err)
	}
}

func (a *Agent) recordBooking(rec conversation.Record, lang string, res booking.Result, status string) {
	if a.db == nil {
		return
	}

	record := &database.BookingRecord{
		Identity:   rec.Identity,
		Name:       rec.Collected.Name,
		Email:      rec.Collected.Email,
		BookingUID: res.BookingUID,
		MeetingURL: res.MeetingURL,
		Language:   lang,
		Status:     status,
	}
	if res.Err != nil {
		record.Notes = res.Err.Error()
	}
	if res.BookedTime != "" {
		if t, err := time.Parse(time.RFC3339, res.BookedTime); err == nil {
			record.BookedStart = &t
		}
	}

	if _, err := a.db.SaveBooking(record); err != nil {
		fmt.Printf("Failed to save booking for %s: %v\n", rec.Identity, err)
	}
}

func (a *Agent) appendSheetRow(ctx context.Context, rec conversation.Record, lang string, res booking.Result) {
	if a.sheet == nil {
		return
	}

	err := a.sheet.Append(ctx, sheets.Row{
		Identity:   rec.Identity,
		Name:       rec.Collected.Name,
		Email:      rec.Collected.Email,
		BookedDate: res.BookedTime,
		Status:     database.BookingConfirmed,
		Language:   lang,
		Notes:      fmt.Sprintf("Booking ID: %s, Meeting URL: %s", res.BookingUID, res.MeetingURL),
	})
	if err != nil {
		fmt.Printf("Failed to append sheet row for %s: %v\n", rec.Identity, err)
	}
}

func (a *Agent) notifyOperator(ctx context.Context, rec conversation.Record, lang string, res booking.Result, failed bool) {
	if a.notifier == nil {
		return
	}

	alert := notify.Alert{
		Identity:   rec.Identity,
		Name:       rec.Collected.Name,
		Email:      rec.Collected.Email,
		BookedTime: res.BookedTime,
		MeetingURL: res.MeetingURL,
		Language:   lang,
		Failed:     failed,
	}
	if res.Err != nil {
		alert.Detail = res.Err.Error()
	}
	a.notifier.NotifyBooking(ctx, alert)
}
