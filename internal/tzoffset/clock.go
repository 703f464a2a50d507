package tzoffset

import "time"

// Clock supplies the current instant. Everything else in this package is a
// pure function of its inputs; the wall-clock read stays behind this
// interface so tests can pin it.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock in the process-local zone.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// CurrentInstant formats the clock's reading as an ISO-8601 string with an
// explicit trailing offset, or a Z suffix when the resolved offset is zero.
func CurrentInstant(c Clock) string {
	now := c.Now()
	if _, offset := now.Zone(); offset == 0 {
		return now.UTC().Format(time.RFC3339)
	}
	return now.Format(time.RFC3339)
}
