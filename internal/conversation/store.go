package conversation

import (
	"sync"
	"time"
)

// State is the forward-only conversation state.
type State int

const (
	StateInitial State = iota
	StateBookingStarted
	StateWaitingName
	StateWaitingEmail
	StateWaitingDate
	StateBookingCompleted
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateBookingStarted:
		return "booking_started"
	case StateWaitingName:
		return "waiting_name"
	case StateWaitingEmail:
		return "waiting_email"
	case StateWaitingDate:
		return "waiting_date"
	case StateBookingCompleted:
		return "booking_completed"
	}
	return "unknown"
}

// Collected holds the booking fields gathered so far. Fields fill
// monotonically: a non-empty value is only ever replaced by another
// non-empty value.
type Collected struct {
	Name       string
	Email      string
	DatePhrase string
}

// Record is one correspondent's conversation. A single record exists per
// identity; it is deleted only after a completed booking.
type Record struct {
	Identity    string
	State       State
	Language    string
	Collected   Collected
	LastUpdated time.Time
}

// Store is the in-process session store. All access goes through the store
// lock so near-simultaneous messages from the same identity cannot race the
// record's read-modify-write.
type Store struct {
	mu      sync.Mutex
	records map[string]*Record
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		records: make(map[string]*Record),
		now:     time.Now,
	}
}

// SetNowFunc overrides the clock, used by tests.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.now = now
}

// Snapshot returns a copy of the identity's record and whether it exists.
func (s *Store) Snapshot(identity string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[identity]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Delete removes the identity's record, discarding the conversation history.
// Called after a completed booking.
func (s *Store) Delete(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, identity)
}

// Len reports how many conversations are currently tracked.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// update runs fn against the identity's record (creating it if absent)
// under the store lock, then returns a snapshot.
func (s *Store) update(identity string, fn func(*Record)) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[identity]
	if !ok {
		rec = &Record{Identity: identity, State: StateInitial}
		s.records[identity] = rec
	}
	fn(rec)
	rec.LastUpdated = s.now()
	return *rec
}

// advanceState moves the record forward in the state ordering. Backward
// moves are ignored so the state never regresses.
func (r *Record) advanceState(next State) {
	if next > r.State {
		r.State = next
	}
}
