package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmateos/bookline/internal/cal"
)

var testLoc = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
	return loc
}()

// Tuesday 2026-03-10 09:00 local (13:00 UTC, DST in effect).
var refNow = time.Date(2026, 3, 10, 9, 0, 0, 0, testLoc)

type fakeScheduler struct {
	configured  bool
	createErrs  []error
	createdUID  string
	nextSlot    string
	nextSlotErr error
	createCalls []cal.BookingParams
	availCalls  int
}

func (f *fakeScheduler) CreateBooking(_ context.Context, params cal.BookingParams) (*cal.Booking, error) {
	f.createCalls = append(f.createCalls, params)
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	uid := f.createdUID
	if uid == "" {
		uid = "uid-1"
	}
	return &cal.Booking{UID: uid, MeetingURL: "https://app.cal.com/booking/" + uid}, nil
}

func (f *fakeScheduler) NextAvailableSlot(_ context.Context, _ string, _ int) (string, error) {
	f.availCalls++
	return f.nextSlot, f.nextSlotErr
}

func (f *fakeScheduler) IsConfigured() bool { return f.configured }

type fakeMessenger struct {
	sent []string
}

func (f *fakeMessenger) Send(_ context.Context, _, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

func newTestReconciler(s Scheduler, m Messenger) *Reconciler {
	r := NewReconciler(s, m, testLoc, 1, 15, 7)
	r.SetNowFunc(func() time.Time { return refNow })
	return r
}

func validRequest() Request {
	return Request{
		Name:       "Carlos García",
		Email:      "carlos@x.com",
		DatePhrase: "tomorrow at 3pm",
		Identity:   "+34600111222",
		Language:   "es",
	}
}

func TestBook_Success(t *testing.T) {
	sched := &fakeScheduler{configured: true, createdUID: "abc123"}
	r := newTestReconciler(sched, &fakeMessenger{})

	res := r.Book(context.Background(), validRequest())
	require.True(t, res.Success)
	assert.Equal(t, "abc123", res.BookingUID)
	assert.Equal(t, "https://app.cal.com/booking/abc123", res.MeetingURL)

	require.Len(t, sched.createCalls, 1)
	// Tomorrow 15:00 EDT is 19:00 UTC; 15-minute event.
	assert.Equal(t, "2026-03-11T19:00:00Z", sched.createCalls[0].Start)
	assert.Equal(t, "2026-03-11T19:15:00Z", sched.createCalls[0].End)
	assert.Equal(t, "es", sched.createCalls[0].Language)
}

func TestBook_ValidationGate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
		sched  *fakeScheduler
	}{
		{"missing credential", func(r *Request) {}, &fakeScheduler{configured: false}},
		{"short name", func(r *Request) { r.Name = "X" }, &fakeScheduler{configured: true}},
		{"bad email", func(r *Request) { r.Email = "not-an-email" }, &fakeScheduler{configured: true}},
		{"empty date", func(r *Request) { r.DatePhrase = "  " }, &fakeScheduler{configured: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			r := newTestReconciler(tc.sched, &fakeMessenger{})

			res := r.Book(context.Background(), req)
			assert.False(t, res.Success)
			assert.Error(t, res.Err)
			assert.NotEmpty(t, res.Message)
			// No network call on validation failure.
			assert.Empty(t, tc.sched.createCalls)
		})
	}
}

func TestBook_UnparseableDate(t *testing.T) {
	sched := &fakeScheduler{configured: true}
	r := newTestReconciler(sched, &fakeMessenger{})

	req := validRequest()
	req.DatePhrase = "whenever suits you"
	res := r.Book(context.Background(), req)
	assert.False(t, res.Success)
	assert.Error(t, res.Err)
	assert.Empty(t, sched.createCalls)
}

func TestBook_InsufficientNotice(t *testing.T) {
	sched := &fakeScheduler{configured: true}
	r := newTestReconciler(sched, &fakeMessenger{})

	req := validRequest()
	// 09:30 local is 30 minutes out; minimum notice is 60 minutes.
	req.DatePhrase = "today at 9:30"
	res := r.Book(context.Background(), req)

	assert.False(t, res.Success)
	assert.Empty(t, sched.createCalls)
	// Suggested alternative is exactly now + minimum notice: 10:00 AM today.
	assert.Contains(t, res.Message, "today at 10:00 AM")
	assert.Contains(t, res.Message, "1 hora")
}

func TestBook_ConflictRetriesCappedAtThreeCalls(t *testing.T) {
	sched := &fakeScheduler{
		configured: true,
		createErrs: []error{cal.ErrSlotTaken, cal.ErrSlotTaken, cal.ErrSlotTaken, cal.ErrSlotTaken},
		nextSlot:   "2026-03-12T15:00:00Z",
	}
	msgr := &fakeMessenger{}
	r := newTestReconciler(sched, msgr)

	res := r.Book(context.Background(), validRequest())
	assert.False(t, res.Success)
	// Third consecutive conflict terminates; no fourth create call.
	assert.Len(t, sched.createCalls, 3)
	assert.Contains(t, res.Err.Error(), "retries exhausted")
	// One interim notification per retry hop.
	assert.Len(t, msgr.sent, 2)
}

func TestBook_ConflictThenSuccessOnAlternative(t *testing.T) {
	sched := &fakeScheduler{
		configured: true,
		createErrs: []error{cal.ErrSlotTaken, nil},
		nextSlot:   "2026-03-12T15:00:00Z",
		createdUID: "retry-ok",
	}
	msgr := &fakeMessenger{}
	r := newTestReconciler(sched, msgr)

	res := r.Book(context.Background(), validRequest())
	require.True(t, res.Success)
	assert.Equal(t, "retry-ok", res.BookingUID)

	require.Len(t, sched.createCalls, 2)
	assert.Equal(t, "2026-03-12T15:00:00Z", sched.createCalls[1].Start)
	require.Len(t, msgr.sent, 1)
	assert.Contains(t, msgr.sent[0], "2026-03-12T15:00:00Z")
}

func TestBook_ConflictNoAlternativeSlot(t *testing.T) {
	sched := &fakeScheduler{
		configured: true,
		createErrs: []error{cal.ErrSlotTaken},
		nextSlot:   "",
	}
	r := newTestReconciler(sched, &fakeMessenger{})

	res := r.Book(context.Background(), validRequest())
	assert.False(t, res.Success)
	assert.Len(t, sched.createCalls, 1)
	assert.Contains(t, res.Err.Error(), "no alternative slot")
}

func TestBook_OutOfBoundsRetriesWithTomorrowPhrase(t *testing.T) {
	sched := &fakeScheduler{
		configured: true,
		createErrs: []error{cal.ErrOutOfBounds, nil},
	}
	msgr := &fakeMessenger{}
	r := newTestReconciler(sched, msgr)

	req := validRequest()
	req.DatePhrase = "today at 11:00"
	res := r.Book(context.Background(), req)
	require.True(t, res.Success)

	require.Len(t, sched.createCalls, 2)
	// Retry reuses the original clock time anchored to tomorrow.
	assert.Equal(t, "2026-03-11T15:00:00Z", sched.createCalls[1].Start)
	require.Len(t, msgr.sent, 1)
	assert.Contains(t, msgr.sent[0], "tomorrow at 11:00")
}

func TestBook_OutOfBoundsBudgetIsBounded(t *testing.T) {
	sched := &fakeScheduler{
		configured: true,
		createErrs: []error{cal.ErrOutOfBounds, cal.ErrOutOfBounds, cal.ErrOutOfBounds, cal.ErrOutOfBounds},
	}
	r := newTestReconciler(sched, &fakeMessenger{})

	res := r.Book(context.Background(), validRequest())
	assert.False(t, res.Success)
	assert.Len(t, sched.createCalls, 3)
	assert.Contains(t, res.Err.Error(), "bounds retries exhausted")
}

type fakeRetryObserver struct {
	reasons []string
}

func (f *fakeRetryObserver) ObserveRetry(reason string) {
	f.reasons = append(f.reasons, reason)
}

func TestBook_RetryHopsAreObserved(t *testing.T) {
	sched := &fakeScheduler{
		configured: true,
		createErrs: []error{cal.ErrOutOfBounds, cal.ErrSlotTaken, nil},
		nextSlot:   "2026-03-12T15:00:00Z",
	}
	obs := &fakeRetryObserver{}
	r := newTestReconciler(sched, &fakeMessenger{})
	r.SetRetryObserver(obs)

	res := r.Book(context.Background(), validRequest())
	require.True(t, res.Success)
	assert.Equal(t, []string{"bounds", "conflict"}, obs.reasons)
}

func TestBook_BoundsRetryDoesNotConsumeConflictBudget(t *testing.T) {
	sched := &fakeScheduler{
		configured: true,
		createErrs: []error{cal.ErrOutOfBounds, cal.ErrSlotTaken, cal.ErrSlotTaken, nil},
		nextSlot:   "2026-03-12T15:00:00Z",
		createdUID: "mixed",
	}
	r := newTestReconciler(sched, &fakeMessenger{})

	res := r.Book(context.Background(), validRequest())
	require.True(t, res.Success)
	assert.Equal(t, "mixed", res.BookingUID)
	assert.Len(t, sched.createCalls, 4)
}

func TestBook_ProviderErrorSurfacesDetail(t *testing.T) {
	sched := &fakeScheduler{
		configured: true,
		createErrs: []error{fmt.Errorf("cal.com API error (status 500): upstream exploded")},
	}
	r := newTestReconciler(sched, &fakeMessenger{})

	res := r.Book(context.Background(), validRequest())
	assert.False(t, res.Success)
	assert.Contains(t, res.Err.Error(), "upstream exploded")
	assert.NotEmpty(t, res.Message)
}
