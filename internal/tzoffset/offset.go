package tzoffset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var offsetSuffix = regexp.MustCompile(`([+-])(\d{2}):(\d{2})$`)

// ParseOffset renders the fixed UTC offset carried by an ISO-8601 timestamp
// in display form: UTC+0, UTC-5, UTC+5:30. The hour is never zero-padded and
// the minutes appear only when non-zero. A timestamp without a recognizable
// suffix falls back to UTC+0 rather than failing.
func ParseOffset(ts string) string {
	if strings.HasSuffix(ts, "Z") {
		return "UTC+0"
	}
	m := offsetSuffix.FindStringSubmatch(ts)
	if m == nil {
		return "UTC+0"
	}
	hours, _ := strconv.Atoi(m[2])
	if m[3] == "00" {
		return fmt.Sprintf("UTC%s%d", m[1], hours)
	}
	return fmt.Sprintf("UTC%s%d:%s", m[1], hours, m[3])
}

// SyntheticZone maps the timestamp's offset to a fixed-offset zone
// identifier. Etc/GMT names encode the offset needed to reach UTC from local
// time, the arithmetic inverse of the timestamp's own offset, hence the sign
// flip. Offsets with a minute component cannot be expressed as a whole-hour
// zone and yield fallback unchanged; a missing suffix yields UTC.
func SyntheticZone(ts, fallback string) string {
	if strings.HasSuffix(ts, "Z") {
		return "UTC"
	}
	m := offsetSuffix.FindStringSubmatch(ts)
	if m == nil {
		return "UTC"
	}
	if m[3] != "00" {
		return fallback
	}
	hours, _ := strconv.Atoi(m[2])
	inverted := "-"
	if m[1] == "-" {
		inverted = "+"
	}
	return fmt.Sprintf("Etc/GMT%s%d", inverted, hours)
}

// ShouldShowSelector reports whether the visitor's offset differs from the
// organization's. The comparison is plain string equality on the rendered
// display forms; offsets that render identically count as equal even when
// the source strings differ.
func ShouldShowSelector(userTS, orgTS string) bool {
	return ParseOffset(userTS) != ParseOffset(orgTS)
}
