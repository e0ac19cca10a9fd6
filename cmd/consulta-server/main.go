package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"consulta/backend/internal/config"
	"consulta/backend/internal/service/availability"
	"consulta/backend/internal/service/booking"
	"consulta/backend/internal/service/reviews"
	"consulta/backend/internal/store/postgres"
	transporthttp "consulta/backend/internal/transport/http"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})).With("service", "consulta", "version", version)

	db, err := postgres.Open(cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		log.Error("open database", append([]any{"error", err}, databaseLogArgs(cfg.DatabaseURL)...)...)
		os.Exit(1)
	}
	defer func() {
		_ = postgres.Close(db)
	}()
	log.Info("database connected", databaseLogArgs(cfg.DatabaseURL)...)

	bookings := postgres.NewBookingRepo(db)
	reviewsRepo := postgres.NewReviewRepo(db)
	schedules := postgres.NewScheduleRepo(db)

	bookingSvc := booking.NewService(bookings)
	availabilitySvc := availability.NewService(schedules, bookings)
	reviewSvc := reviews.NewService(reviewsRepo, bookings)

	router := transporthttp.NewRouter(transporthttp.RouterConfig{
		Bookings:     bookingSvc,
		Availability: availabilitySvc,
		Reviews:      reviewSvc,
		DB:           db,
		Log:          log.With("component", "http"),
		Env:          cfg.Env,
		Version:      version,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTPRequestTimeout,
		WriteTimeout: cfg.HTTPRequestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		log.Error("http server failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("stopped")
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// databaseLogArgs reports the target host and database without credentials.
func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{"database", "unparseable"}
	}
	return []any{"db_host", u.Host, "db_name", strings.TrimPrefix(u.Path, "/")}
}
