package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"calcify/internal/calculator"
	"calcify/internal/config"
	"calcify/internal/observability"
	"calcify/internal/server"
	"calcify/internal/storage"
)

func main() {

	ctx := context.Background()

	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger()
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics, logs
	telemetryShutdown, err := initTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		panic(err)
	}
	defer telemetryShutdown(ctx)

	// Storage
	store, err := storage.Open(cfg.Store, cfg.StorePath)
	if err != nil {
		observability.Logger.Fatal("opening store failed", zap.Error(err))
	}
	defer store.Close()

	// Sessions
	sessions := calculator.NewRegistry(store,
		calculator.WithIdleTTL(cfg.SessionTTL),
		calculator.WithMaxSessions(cfg.MaxSessions),
	)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sessions.Run(sweepCtx, time.Minute)

	// Router
	router := server.NewRouter(sessions)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.String("store", cfg.Store),
			zap.Bool("telemetry", cfg.Telemetry),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv)
}

func waitForShutdown(srv *http.Server) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Warn("server shutdown failed", zap.Error(err))
	}
	observability.Logger.Info("server stopped")
}
