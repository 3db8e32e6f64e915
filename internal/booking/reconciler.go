// Package booking reconciles a completed conversation against the external
// scheduler, applying the notice, conflict and booking-window policies.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rmateos/bookline/internal/cal"
	"github.com/rmateos/bookline/internal/responses"
	"github.com/rmateos/bookline/internal/timeutil"
)

// maxConflictRetries bounds the slot-conflict retry chain. The bounds-error
// path carries its own budget of the same size so a scheduler that keeps
// rejecting the window cannot loop forever.
const (
	maxConflictRetries = 3
	maxBoundsRetries   = 3
)

// Scheduler is the external calendar provider.
type Scheduler interface {
	CreateBooking(ctx context.Context, params cal.BookingParams) (*cal.Booking, error)
	NextAvailableSlot(ctx context.Context, fromWire string, days int) (string, error)
	IsConfigured() bool
}

// Messenger delivers interim notifications to the user between retry hops.
type Messenger interface {
	Send(ctx context.Context, to, text string) error
}

// RetryObserver counts retry hops by reason ("conflict" or "bounds").
type RetryObserver interface {
	ObserveRetry(reason string)
}

// Request is one booking attempt chain, built from a completed
// conversation snapshot.
type Request struct {
	Name       string
	Email      string
	DatePhrase string
	Identity   string
	Language   string
}

// Result is the outcome of a booking attempt chain. Message is the
// localized text to show the user on failure; on success the caller builds
// the confirmation itself from BookingUID/MeetingURL.
type Result struct {
	Success    bool
	BookingUID string
	MeetingURL string
	BookedTime string
	Message    string
	Err        error
}

// Reconciler drives booking creation with bounded retries.
type Reconciler struct {
	scheduler        Scheduler
	messenger        Messenger
	loc              *time.Location
	minNotice        time.Duration
	eventDuration    time.Duration
	availabilityDays int
	observer         RetryObserver
	now              func() time.Time
}

func NewReconciler(scheduler Scheduler, messenger Messenger, loc *time.Location, minNoticeHours, eventDurationMin, availabilityDays int) *Reconciler {
	return &Reconciler{
		scheduler:        scheduler,
		messenger:        messenger,
		loc:              loc,
		minNotice:        time.Duration(minNoticeHours) * time.Hour,
		eventDuration:    time.Duration(eventDurationMin) * time.Minute,
		availabilityDays: availabilityDays,
		now:              time.Now,
	}
}

// SetNowFunc overrides the clock, used by tests.
func (r *Reconciler) SetNowFunc(now func() time.Time) {
	r.now = now
}

// SetRetryObserver attaches an optional retry counter.
func (r *Reconciler) SetRetryObserver(o RetryObserver) {
	r.observer = o
}

// Book validates the request and runs the create/retry loop. Conflict
// retries and bounds retries are counted on separate budgets.
func (r *Reconciler) Book(ctx context.Context, req Request) Result {
	if res, ok := r.validate(req); !ok {
		return res
	}

	phrase := req.DatePhrase
	conflictAttempts := 0
	boundsAttempts := 0

	for {
		start, err := r.resolveInstant(phrase)
		if err != nil {
			return Result{
				Message: responses.Get(responses.BookingError, req.Language, nil),
				Err:     fmt.Errorf("could not parse date %q: %w", phrase, err),
			}
		}

		now := r.now()
		if res, ok := r.checkNotice(req, phrase, start, now); !ok {
			return res
		}

		startWire := start.UTC().Format(timeutil.WireFormat)
		endWire := start.Add(r.eventDuration).UTC().Format(timeutil.WireFormat)

		booking, err := r.scheduler.CreateBooking(ctx, cal.BookingParams{
			Start:    startWire,
			End:      endWire,
			Name:     req.Name,
			Email:    req.Email,
			Identity: req.Identity,
			Language: req.Language,
		})

		switch {
		case err == nil:
			return Result{
				Success:    true,
				BookingUID: booking.UID,
				MeetingURL: booking.MeetingURL,
				BookedTime: startWire,
			}

		case errors.Is(err, cal.ErrSlotTaken):
			conflictAttempts++
			if conflictAttempts >= maxConflictRetries {
				return Result{
					Message: responses.Get(responses.AllSlotsFull, req.Language, nil),
					Err:     fmt.Errorf("conflict retries exhausted: %w", err),
				}
			}

			nextSlot, availErr := r.scheduler.NextAvailableSlot(ctx, startWire, r.availabilityDays)
			if availErr != nil || nextSlot == "" {
				return Result{
					Message: responses.Get(responses.AvailabilityError, req.Language, nil),
					Err:     fmt.Errorf("no alternative slot found: %v", availErr),
				}
			}

			r.observeRetry("conflict")
			r.notify(ctx, req, responses.Get(responses.SlotConflictRetry, req.Language, responses.Params{
				"original_time": startWire,
				"new_time":      nextSlot,
			}))
			phrase = nextSlot

		case errors.Is(err, cal.ErrOutOfBounds):
			boundsAttempts++
			if boundsAttempts >= maxBoundsRetries {
				return Result{
					Message: responses.Get(responses.TimeOutOfBounds, req.Language, responses.Params{
						"requested_time": phrase,
						"next_available": "",
					}),
					Err: fmt.Errorf("bounds retries exhausted: %w", err),
				}
			}

			fallback := boundsFallbackPhrase(phrase)
			r.observeRetry("bounds")
			r.notify(ctx, req, responses.Get(responses.TimeOutOfBounds, req.Language, responses.Params{
				"requested_time": phrase,
				"next_available": fallback,
			}))
			phrase = fallback

		default:
			return Result{
				Message: responses.Get(responses.BookingError, req.Language, nil),
				Err:     err,
			}
		}
	}
}

func (r *Reconciler) validate(req Request) (Result, bool) {
	fail := func(err error) (Result, bool) {
		return Result{
			Message: responses.Get(responses.BookingError, req.Language, nil),
			Err:     err,
		}, false
	}

	switch {
	case !r.scheduler.IsConfigured():
		return fail(errors.New("scheduler credential is missing"))
	case len(strings.TrimSpace(req.Name)) < 2:
		return fail(fmt.Errorf("invalid name: %q", req.Name))
	case !strings.Contains(req.Email, "@"):
		return fail(fmt.Errorf("invalid email: %q", req.Email))
	case strings.TrimSpace(req.DatePhrase) == "":
		return fail(errors.New("date phrase is empty"))
	}
	return Result{}, true
}

// resolveInstant accepts either a natural-language phrase or an already
// normalized wire-format instant (retry hops feed scheduler slots back in).
func (r *Reconciler) resolveInstant(phrase string) (time.Time, error) {
	if t, err := time.Parse(timeutil.WireFormat, strings.TrimSpace(phrase)); err == nil {
		return t, nil
	}
	return timeutil.NormalizeTime(phrase, r.loc, r.now())
}

func (r *Reconciler) checkNotice(req Request, phrase string, start, now time.Time) (Result, bool) {
	if start.Sub(now) >= r.minNotice {
		return Result{}, true
	}

	earliest := now.Add(r.minNotice)
	prettyTime := timeutil.FormatPretty(earliest, r.loc)
	suggested := timeutil.DescribeRelative(earliest, now, r.loc)

	return Result{
		Message: responses.Get(responses.InsufficientNotice, req.Language, responses.Params{
			"requested_time": phrase,
			"minimum_hours":  fmt.Sprintf("%d", int(r.minNotice.Hours())),
			"suggested_time": suggested,
			"pretty_time":    prettyTime,
		}),
		Err: fmt.Errorf("insufficient notice: %s is less than %s away", phrase, r.minNotice),
	}, false
}

func (r *Reconciler) observeRetry(reason string) {
	if r.observer != nil {
		r.observer.ObserveRetry(reason)
	}
}

func (r *Reconciler) notify(ctx context.Context, req Request, text string) {
	if r.messenger == nil {
		return
	}
	if err := r.messenger.Send(ctx, req.Identity, text); err != nil {
		fmt.Printf("Failed to send retry notification to %s: %v\n", req.Identity, err)
	}
}

// boundsFallbackPhrase reuses the original clock time anchored to tomorrow,
// or falls back to the default morning slot when no time survives.
func boundsFallbackPhrase(phrase string) string {
	if idx := strings.Index(phrase, " at "); idx >= 0 {
		return "tomorrow at " + phrase[idx+len(" at "):]
	}
	if hour, minute, ok := timeutil.ExtractClockTime(phrase); ok {
		return fmt.Sprintf("tomorrow at %02d:%02d", hour, minute)
	}
	return "tomorrow at 10 AM"
}
