package booking

import (
	"errors"
	"time"
)

// Booking statuses as reported back to the page.
const (
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
)

// Booking is one confirmed (or attempted) meeting reservation. The service
// keeps no database; bookings live upstream and this record only travels
// through notifications, sheet sync and the audit trail.
type Booking struct {
	ExternalID  string    `json:"external_id"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone,omitempty"`
	ClientEmail string    `json:"client_email,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

var (
	ErrTooSoon = errors.New("booking starts too soon")
	ErrTooFar  = errors.New("booking starts too far ahead")
)

// Rules bound how far from now a slot may be booked.
type Rules struct {
	MinAdvance time.Duration
	MaxAdvance time.Duration
}

// Validate checks a slot start against the advance rules.
func (r Rules) Validate(now, slotStart time.Time) error {
	if r.MinAdvance > 0 && slotStart.Before(now.Add(r.MinAdvance)) {
		return ErrTooSoon
	}
	if r.MaxAdvance > 0 && slotStart.After(now.Add(r.MaxAdvance)) {
		return ErrTooFar
	}
	return nil
}
