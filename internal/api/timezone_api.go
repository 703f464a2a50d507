package api

import (
	"net/http"

	"slotbook/internal/metrics"
	"slotbook/internal/tzoffset"
)

// TimezoneResponse is the response for GET /api/timezone.
type TimezoneResponse struct {
	UserOffset   string `json:"user_offset"`
	OrgOffset    string `json:"org_offset"`
	ShowSelector bool   `json:"show_selector"`
	TimezoneID   string `json:"timezone_id"`
}

// handleTimezone reconciles the visitor's UTC offset against the
// organization's. The organization's offset is inferred from the first
// availability window; with no windows at all, both sides settle on the
// defensive UTC defaults.
// GET /api/timezone?user_time=<ISO-8601>[&start&end]
func (s *HTTPServer) handleTimezone(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("timezone")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userTS := r.URL.Query().Get("user_time")
	if userTS == "" {
		userTS = tzoffset.CurrentInstant(s.clock)
	}

	start, end, err := s.parseRange(r)
	if err != nil {
		// Range is optional here; default to the bookable horizon.
		now := s.clock.Now()
		start = now.Format(dateLayout)
		end = now.Add(s.rules.MaxAdvance).Format(dateLayout)
	}

	windows, err := s.client.GetWindows(r.Context(), start, end)
	if err != nil {
		s.log.Error().Err(err).Str("start", start).Str("end", end).Msg("failed to load availability")
		writeError(w, http.StatusBadGateway, "failed to load availability")
		return
	}

	orgTS := ""
	if len(windows) > 0 {
		orgTS = windows[0].Start
	}

	writeJSON(w, http.StatusOK, TimezoneResponse{
		UserOffset:   tzoffset.ParseOffset(userTS),
		OrgOffset:    tzoffset.ParseOffset(orgTS),
		ShowSelector: tzoffset.ShouldShowSelector(userTS, orgTS),
		TimezoneID:   tzoffset.SyntheticZone(orgTS, s.cfg.Timezone.FallbackZone),
	})
}
