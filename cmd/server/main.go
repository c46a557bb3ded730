package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"accurate-report/internal/accurate"
	webAdapter "accurate-report/internal/adapters/web"
	"accurate-report/internal/app"
	"accurate-report/internal/config"
	"accurate-report/internal/logger"
	"accurate-report/internal/metrics"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})

	// Missing upstream settings are reported per request as CONFIG_ERROR.
	if err := cfg.Accurate.Validate(); err != nil {
		log.Warn("upstream not configured", "err", err)
	}

	m := metrics.New()
	client := accurate.NewClient(cfg.Accurate, m)
	fetcher := accurate.NewDetailFetcher(client, cfg.Accurate, m)
	svc := app.NewReportService(cfg, client, fetcher, m)

	handler := webAdapter.NewHandler(svc, webAdapter.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		Metrics:        m,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server starting", "addr", srv.Addr, "host", cfg.Accurate.Host)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}
