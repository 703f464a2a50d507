package api

import (
	"net/http"
	"testing"

	"slotbook/internal/upstream"
)

func TestBuildMonthGrid(t *testing.T) {
	available := map[string]bool{
		"2025-12-16": true,
		"2025-12-17": true,
	}

	grid := BuildMonthGrid(2025, 12, available)

	if grid.Year != 2025 || grid.Month != 12 {
		t.Fatalf("grid = %d-%d, want 2025-12", grid.Year, grid.Month)
	}
	// December 2025 starts on a Monday and spans exactly five rows.
	if len(grid.Weeks) != 5 {
		t.Fatalf("weeks = %d, want 5", len(grid.Weeks))
	}
	for i, week := range grid.Weeks {
		if len(week) != 7 {
			t.Fatalf("week %d has %d cells, want 7", i, len(week))
		}
	}

	first := grid.Weeks[0][0]
	if first.Day != 1 || first.Date != "2025-12-01" {
		t.Errorf("first cell = %+v, want day 1", first)
	}

	// 16th is the second cell of the third week.
	cell := grid.Weeks[2][1]
	if cell.Date != "2025-12-16" || !cell.Available {
		t.Errorf("cell for the 16th = %+v, want available", cell)
	}
	if grid.Weeks[2][0].Available {
		t.Errorf("cell for the 15th marked available")
	}

	// Trailing placeholders after the 31st.
	last := grid.Weeks[4][6]
	if last.Day != 0 || last.Date != "" {
		t.Errorf("trailing cell = %+v, want empty placeholder", last)
	}
}

func TestBuildMonthGridOffsetStart(t *testing.T) {
	// November 2025 starts on a Saturday: five leading placeholders.
	grid := BuildMonthGrid(2025, 11, nil)

	week := grid.Weeks[0]
	for i := 0; i < 5; i++ {
		if week[i].Day != 0 {
			t.Errorf("cell %d = %+v, want placeholder", i, week[i])
		}
	}
	if week[5].Day != 1 || week[5].Date != "2025-11-01" {
		t.Errorf("cell 5 = %+v, want day 1", week[5])
	}
}

func TestHandleCalendar(t *testing.T) {
	env := newTestEnv(t, testWindows(), upstream.BookingResponse{})

	resp, err := http.Get(env.server.URL + "/api/calendar?year=2025&month=12")
	if err != nil {
		t.Fatalf("GET calendar: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var grid MonthGrid
	decodeJSON(t, resp, &grid)

	if grid.Year != 2025 || grid.Month != 12 {
		t.Fatalf("grid = %d-%d, want 2025-12", grid.Year, grid.Month)
	}

	availableDates := map[string]bool{}
	for _, week := range grid.Weeks {
		for _, cell := range week {
			if cell.Available {
				availableDates[cell.Date] = true
			}
		}
	}
	if !availableDates["2025-12-16"] || !availableDates["2025-12-17"] {
		t.Errorf("available dates = %v, want 2025-12-16 and 2025-12-17", availableDates)
	}
	if len(availableDates) != 2 {
		t.Errorf("available dates = %v, want exactly two", availableDates)
	}
}

func TestHandleCalendarValidation(t *testing.T) {
	env := newTestEnv(t, testWindows(), upstream.BookingResponse{})

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing year",
			query:      "?month=12",
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid year",
		},
		{
			name:       "year out of range",
			query:      "?year=1999&month=12",
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid year",
		},
		{
			name:       "month out of range",
			query:      "?year=2025&month=13",
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid month; expected 1-12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(env.server.URL + "/api/calendar" + tt.query)
			if err != nil {
				t.Fatalf("GET calendar: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var body ErrorResponse
			decodeJSON(t, resp, &body)
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
		})
	}
}
