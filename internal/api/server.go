package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"slotbook/internal/audit"
	"slotbook/internal/booking"
	"slotbook/internal/config"
	"slotbook/internal/events"
	"slotbook/internal/tzoffset"
	"slotbook/internal/upstream"
)

const (
	// MaxAvailabilityDaysRange is the maximum number of days allowed in an
	// availability query.
	MaxAvailabilityDaysRange = 90

	dateLayout = "2006-01-02"
)

// HTTPServer serves the scheduling page's JSON API.
type HTTPServer struct {
	cfg    *config.Config
	client *upstream.Client
	bus    *events.Bus
	trail  *audit.Trail
	clock  tzoffset.Clock
	rules  booking.Rules
	rdb    *redis.Client
	log    *zerolog.Logger
	mux    *http.ServeMux
}

// NewHTTPServer wires the handlers. rdb may be nil when Redis is not
// configured; trail may be nil when auditing is disabled.
func NewHTTPServer(
	cfg *config.Config,
	client *upstream.Client,
	bus *events.Bus,
	trail *audit.Trail,
	clock tzoffset.Clock,
	rdb *redis.Client,
	logger *zerolog.Logger,
) *HTTPServer {
	s := &HTTPServer{
		cfg:    cfg,
		client: client,
		bus:    bus,
		trail:  trail,
		clock:  clock,
		rules: booking.Rules{
			MinAdvance: cfg.BookingMinAdvance(),
			MaxAdvance: cfg.BookingMaxAdvance(),
		},
		rdb: rdb,
		log: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/readyz", s.handleReadyz)
	mux.HandleFunc("/api/availability", s.handleAvailability)
	mux.HandleFunc("/api/slots", s.handleSlots)
	mux.HandleFunc("/api/calendar", s.handleCalendar)
	mux.HandleFunc("/api/timezone", s.handleTimezone)
	mux.HandleFunc("/api/bookings", s.handleCreateBooking)
	mux.HandleFunc("/api/admin/audit.xlsx", s.handleAuditExport)
	s.mux = mux

	return s
}

// Handler exposes the route table, mainly for tests.
func (s *HTTPServer) Handler() http.Handler { return s.mux }

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler: s.mux,
	}

	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *HTTPServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctxPing, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()

	if s.rdb != nil {
		if err := s.rdb.Ping(ctxPing).Err(); err != nil {
			http.Error(w, "redis not ready", http.StatusServiceUnavailable)
			return
		}
	}
	if err := s.client.HealthCheck(ctxPing); err != nil {
		http.Error(w, "upstream not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// parseRange validates start/end query parameters (YYYY-MM-DD, start before
// or equal to end, at most 90 days apart).
func (s *HTTPServer) parseRange(r *http.Request) (string, string, error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")
	if startStr == "" || endStr == "" {
		return "", "", fmt.Errorf("start and end are required")
	}

	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return "", "", fmt.Errorf("invalid start format; expected YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return "", "", fmt.Errorf("invalid end format; expected YYYY-MM-DD")
	}

	if start.After(end) {
		return "", "", fmt.Errorf("start must be before or equal to end")
	}
	if int(end.Sub(start).Hours()/24) > MaxAvailabilityDaysRange {
		return "", "", fmt.Errorf("date range exceeds maximum of %d days", MaxAvailabilityDaysRange)
	}

	return startStr, endStr, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
