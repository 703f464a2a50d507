package availability

import "time"

// SlotLength is the fixed width of a bookable slot.
const SlotLength = 30 * time.Minute

const dateKeyLayout = "2006-01-02"

// Window is a raw availability interval as published by the scheduling
// backend. Start and End are ISO-8601 strings carrying either a Z suffix or
// an explicit UTC offset. End is expected to be at or after Start; that is
// the upstream's contract, not enforced here.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Slot is a single bookable 30-minute unit derived from one window.
// Start's minute is always 0 or 30 with seconds zeroed, and the whole
// [Start, End) interval lies inside the window it came from.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DatesWithAvailability returns the set of YYYY-MM-DD keys on which at least
// one window starts. The date is the wall-clock reading of the start
// timestamp in whatever offset the string carries. Bucketing looks at the
// start instant only: a window crossing midnight surfaces on its start date
// and never on the next one.
func DatesWithAvailability(windows []Window) map[string]bool {
	dates := make(map[string]bool, len(windows))
	for _, w := range windows {
		start, err := time.Parse(time.RFC3339, w.Start)
		if err != nil {
			continue
		}
		dates[start.Format(dateKeyLayout)] = true
	}
	return dates
}

// SlotsForDate derives the ordered bookable slots for one calendar date.
// An empty dateKey short-circuits to nil. Slots from different windows are
// concatenated in window order; the upstream supplies windows pre-sorted and
// this layer does not re-sort them.
func SlotsForDate(windows []Window, dateKey string) []Slot {
	if dateKey == "" {
		return nil
	}

	var slots []Slot
	for _, w := range windows {
		start, err := time.Parse(time.RFC3339, w.Start)
		if err != nil {
			continue
		}
		if start.Format(dateKeyLayout) != dateKey {
			continue
		}
		end, err := time.Parse(time.RFC3339, w.End)
		if err != nil {
			continue
		}

		for cur := roundUpToBoundary(start); cur.Before(end); cur = cur.Add(SlotLength) {
			if end.Before(cur.Add(SlotLength)) {
				// Final partial slot would overrun the window.
				break
			}
			slots = append(slots, Slot{Start: cur, End: cur.Add(SlotLength)})
		}
	}
	return slots
}

// roundUpToBoundary moves t forward to the nearest :00/:30 boundary. A start
// whose minute is already 0 or 30 keeps its hour and minute and only has the
// seconds zeroed; anything else rounds up, never down, so a window opening
// at 9:05 first becomes bookable at 9:30.
func roundUpToBoundary(t time.Time) time.Time {
	y, mo, d := t.Date()
	h := t.Hour()
	switch m := t.Minute(); {
	case m == 0 || m == 30:
		return time.Date(y, mo, d, h, m, 0, 0, t.Location())
	case m < 30:
		return time.Date(y, mo, d, h, 30, 0, 0, t.Location())
	default:
		return time.Date(y, mo, d, h, 0, 0, 0, t.Location()).Add(time.Hour)
	}
}
