package audit

import (
	"sync"
	"time"
)

// Actions recorded by the booking flow.
const (
	ActionBookingRequest   = "booking_request"
	ActionBookingConfirmed = "booking_confirmed"
	ActionBookingRejected  = "booking_rejected"
)

// Entry is one recorded booking attempt.
type Entry struct {
	Time       time.Time
	Action     string
	ClientName string
	Date       string
	SlotStart  string
	Outcome    string
}

// Trail is a bounded in-memory audit log of booking activity. The service
// keeps no database, so the trail holds the most recent entries only and
// evicts the oldest once capacity is reached.
type Trail struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
}

// NewTrail creates a trail holding at most capacity entries.
func NewTrail(capacity int) *Trail {
	if capacity <= 0 {
		capacity = 500
	}
	return &Trail{capacity: capacity}
}

// Record appends an entry, stamping the time if unset.
func (t *Trail) Record(e Entry) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, e)
	if len(t.entries) > t.capacity {
		t.entries = t.entries[len(t.entries)-t.capacity:]
	}
}

// Entries returns a copy of the recorded entries, oldest first.
func (t *Trail) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.entries...)
}

// Len reports the current number of entries.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
