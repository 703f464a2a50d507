package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"slotbook/internal/audit"
	"slotbook/internal/availability"
	"slotbook/internal/config"
	"slotbook/internal/events"
	"slotbook/internal/tzoffset"
	"slotbook/internal/upstream"
)

const testAdminKey = "valid-admin-key"

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type ErrorResponse struct {
	Error string `json:"error"`
}

type testEnv struct {
	server   *httptest.Server
	upstream *httptest.Server
	bus      *events.Bus
	trail    *audit.Trail
	clock    tzoffset.Clock
}

// newTestEnv spins up a fake upstream availability API and the page server
// in front of it. The clock is pinned the day before the test windows so
// advance rules pass.
func newTestEnv(t *testing.T, windows []availability.Window, bookResp upstream.BookingResponse) *testEnv {
	t.Helper()

	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/availability":
			_ = json.NewEncoder(w).Encode(windows)
		case "/api/v1/bookings":
			_ = json.NewEncoder(w).Encode(bookResp)
		case "/healthz":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(upstreamSrv.Close)

	cfg := &config.Config{}
	cfg.Timezone.FallbackZone = "Asia/Kolkata"
	cfg.Audit.AdminKey = testAdminKey

	clock := fixedClock{now: time.Date(2025, 12, 15, 12, 0, 0, 0, time.UTC)}
	bus := events.NewBus()
	trail := audit.NewTrail(100)
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)

	server := NewHTTPServer(cfg, upstream.NewClient(upstreamSrv.URL, "", ""), bus, trail, clock, nil, &logger)
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)

	return &testEnv{
		server:   srv,
		upstream: upstreamSrv,
		bus:      bus,
		trail:    trail,
		clock:    clock,
	}
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func testWindows() []availability.Window {
	return []availability.Window{
		{Start: "2025-12-16T09:00:00Z", End: "2025-12-16T10:15:00Z"},
		{Start: "2025-12-16T14:05:00Z", End: "2025-12-16T15:30:00Z"},
		{Start: "2025-12-17T09:00:00Z", End: "2025-12-17T12:00:00Z"},
	}
}
