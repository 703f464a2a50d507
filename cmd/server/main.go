package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"slotbook/internal/api"
	"slotbook/internal/audit"
	"slotbook/internal/config"
	"slotbook/internal/events"
	"slotbook/internal/metrics"
	"slotbook/internal/notify"
	"slotbook/internal/sheets"
	"slotbook/internal/tzoffset"
	"slotbook/internal/upstream"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("SLOTBOOK_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.API.BaseURL == "" {
		logger.Fatal().Msg("set api.base_url in config")
	}

	client := upstream.NewClient(cfg.API.BaseURL, cfg.API.APIKey, cfg.API.APIExtra)
	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.API.CacheTTLSeconds > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		client.UseRedisCache(rdb, cfg.CacheTTL())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus()

	var trail *audit.Trail
	if cfg.Audit.Enabled {
		trail = audit.NewTrail(cfg.Audit.Capacity)
		bus.Subscribe(events.BookingConfirmed, auditHandler(trail))
		bus.Subscribe(events.BookingRejected, auditHandler(trail))
	}

	if cfg.Telegram.Enabled {
		notifier, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatIDs, &logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create telegram notifier")
		}
		bus.Subscribe(events.BookingConfirmed, notifier.Handler())
	}

	if cfg.Sheets.SpreadsheetID != "" {
		svc, err := sheets.NewSheetsService(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create sheets service")
		}
		bus.Subscribe(events.BookingConfirmed, svc.Handler())
	}

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	server := api.NewHTTPServer(cfg, client, bus, trail, tzoffset.SystemClock{}, rdb, &logger)

	logger.Info().Int("port", cfg.Server.Port).Msg("scheduling server started")
	if err := server.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

// auditHandler mirrors booking outcomes into the audit trail.
func auditHandler(trail *audit.Trail) events.Handler {
	return func(e events.Event) error {
		action := audit.ActionBookingConfirmed
		if e.Type == events.BookingRejected {
			action = audit.ActionBookingRejected
		}
		trail.Record(audit.Entry{
			Action:     action,
			ClientName: e.Booking.ClientName,
			Date:       e.Booking.StartTime.Format("2006-01-02"),
			SlotStart:  e.Booking.StartTime.Format(time.RFC3339),
			Outcome:    e.Booking.Status,
		})
		return nil
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
