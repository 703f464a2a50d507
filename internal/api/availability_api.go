package api

import (
	"net/http"
	"sort"
	"time"

	"slotbook/internal/availability"
	"slotbook/internal/metrics"
)

// AvailabilityResponse is the response for GET /api/availability.
type AvailabilityResponse struct {
	Dates  []string `json:"dates"`
	Period struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
}

// SlotView is a single bookable slot as rendered to the page.
type SlotView struct {
	Start string `json:"start"` // RFC3339, original offset preserved
	End   string `json:"end"`
	Label string `json:"label"` // "10:00"
}

// SlotsResponse is the response for GET /api/slots.
type SlotsResponse struct {
	Date  string     `json:"date"`
	Slots []SlotView `json:"slots"`
}

// handleAvailability returns the dates with at least one bookable window.
// GET /api/availability?start=YYYY-MM-DD&end=YYYY-MM-DD
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start, end, err := s.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	windows, err := s.client.GetWindows(r.Context(), start, end)
	if err != nil {
		s.log.Error().Err(err).Str("start", start).Str("end", end).Msg("failed to load availability")
		writeError(w, http.StatusBadGateway, "failed to load availability")
		return
	}

	dateSet := availability.DatesWithAvailability(windows)
	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	resp := AvailabilityResponse{Dates: dates}
	resp.Period.Start = start
	resp.Period.End = end
	writeJSON(w, http.StatusOK, resp)
}

// handleSlots returns the 30-minute slots for one date.
// GET /api/slots?date=YYYY-MM-DD
func (s *HTTPServer) handleSlots(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("slots")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	windows, err := s.client.GetWindows(r.Context(), date, date)
	if err != nil {
		s.log.Error().Err(err).Str("date", date).Msg("failed to load availability")
		writeError(w, http.StatusBadGateway, "failed to load availability")
		return
	}

	slots := availability.SlotsForDate(windows, date)
	metrics.AddSlotsServed(len(slots))

	views := make([]SlotView, len(slots))
	for i, slot := range slots {
		views[i] = SlotView{
			Start: slot.Start.Format(time.RFC3339),
			End:   slot.End.Format(time.RFC3339),
			Label: slot.Start.Format("15:04"),
		}
	}

	writeJSON(w, http.StatusOK, SlotsResponse{Date: date, Slots: views})
}
