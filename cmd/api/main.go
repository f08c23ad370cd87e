package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nfaconnect/matchday/internal/app"
	"github.com/nfaconnect/matchday/internal/config"
	"github.com/nfaconnect/matchday/internal/observability"
	"github.com/nfaconnect/matchday/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	defer func() {
		_ = logger.Sync()
	}()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	application.Start()

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := application.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}

	if err := application.Close(); err != nil {
		logger.Error("close app", "error", err)
	}

	if err := observability.StopPprofServer(pprofSrv, logger, shutdownTimeout); err != nil {
		logger.Error("stop pprof server", "error", err)
	}
	if err := stopProfiler(); err != nil {
		logger.Error("stop profiler", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("shutdown tracing", "error", err)
	}

	logger.Info("http server stopped")
}
