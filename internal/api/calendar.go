package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"slotbook/internal/availability"
	"slotbook/internal/metrics"
)

// DayCell is one day in the month grid. Cells outside the month are empty
// placeholders keeping the grid rectangular.
type DayCell struct {
	Date      string `json:"date,omitempty"`
	Day       int    `json:"day,omitempty"`
	Available bool   `json:"available"`
}

// MonthGrid is the calendar view of a month, Monday-first.
type MonthGrid struct {
	Year  int         `json:"year"`
	Month int         `json:"month"`
	Weeks [][]DayCell `json:"weeks"`
}

// BuildMonthGrid lays out a Monday-first grid for the given month.
// availableDates keys are YYYY-MM-DD strings.
func BuildMonthGrid(year, month int, availableDates map[string]bool) MonthGrid {
	firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	weekdayOffset := int(firstDay.Weekday())
	if weekdayOffset == 0 {
		weekdayOffset = 7 // make Monday-first grid
	}
	daysInMonth := daysIn(time.Month(month), year)

	grid := MonthGrid{Year: year, Month: month}
	day := 1
	for day <= daysInMonth {
		row := make([]DayCell, 0, 7)
		for col := 1; col <= 7; col++ {
			if len(grid.Weeks) == 0 && col < weekdayOffset {
				row = append(row, DayCell{})
				continue
			}
			if day > daysInMonth {
				row = append(row, DayCell{})
				continue
			}
			dateStr := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
			row = append(row, DayCell{
				Date:      dateStr,
				Day:       day,
				Available: availableDates[dateStr],
			})
			day++
		}
		grid.Weeks = append(grid.Weeks, row)
	}

	return grid
}

// handleCalendar returns the month grid with per-day availability flags.
// GET /api/calendar?year=YYYY&month=M
func (s *HTTPServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("calendar")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2200 {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month; expected 1-12")
		return
	}

	start := fmt.Sprintf("%04d-%02d-01", year, month)
	end := fmt.Sprintf("%04d-%02d-%02d", year, month, daysIn(time.Month(month), year))

	windows, err := s.client.GetWindows(r.Context(), start, end)
	if err != nil {
		s.log.Error().Err(err).Str("start", start).Str("end", end).Msg("failed to load availability")
		writeError(w, http.StatusBadGateway, "failed to load availability")
		return
	}

	grid := BuildMonthGrid(year, month, availability.DatesWithAvailability(windows))
	writeJSON(w, http.StatusOK, grid)
}

func daysIn(m time.Month, year int) int {
	switch m {
	case time.February:
		if (year%4 == 0 && year%100 != 0) || year%400 == 0 {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}
