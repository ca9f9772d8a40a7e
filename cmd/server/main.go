package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/waitlist/internal/api"
	"github.com/mmynk/waitlist/internal/auth"
	"github.com/mmynk/waitlist/internal/config"
	"github.com/mmynk/waitlist/internal/notify"
	"github.com/mmynk/waitlist/internal/service"
	"github.com/mmynk/waitlist/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.Backend)

	sink, err := newSink(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize sheet sink", "error", err)
		os.Exit(1)
	}
	slog.Info("Signup notifications configured", "sink", sink.Name())

	dispatcher := notify.NewDispatcher(sink, cfg.NotifyQueueSize)
	dispatcher.Start()

	svc := service.NewWaitlistService(store,
		service.WithNotifier(dispatcher),
		service.WithExporter(sink),
		service.WithStatsMode(cfg.StatsMode),
	)

	router := api.NewRouter(api.NewHandler(svc), auth.NewJWTManager(cfg.JWTSecret), api.RouterOptions{
		Prefix:         cfg.RoutePrefix,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// h2c lets HTTP/2 clients talk to us without TLS behind a terminating proxy.
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Waitlist server starting", "address", cfg.HTTPAddr, "prefix", cfg.RoutePrefix, "stats_mode", cfg.StatsMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down")
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		slog.Warn("Notification queue not drained", "error", err)
	}
	slog.Info("Bye")
}
