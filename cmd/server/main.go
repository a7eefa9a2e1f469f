package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nekogravitycat/vehicle-service-backend/internal/app"
	"github.com/nekogravitycat/vehicle-service-backend/internal/config"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/logger"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/tracing"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	l := logger.New(cfg.LogLevel, cfg.IsProduction)

	container, err := app.NewContainer(ctx, cfg, l)
	if err != nil {
		l.WithError(err).Fatal("failed to initialize application")
	}
	defer container.Close(context.Background())

	sweeperStop := make(chan struct{})
	go container.AuthLimiter.RunSweeper(time.Minute, sweeperStop)
	defer close(sweeperStop)

	var handler http.Handler = container.Router
	if cfg.OTelEnabled {
		tp, err := tracing.Setup(os.Stdout, tracing.ServiceName)
		if err != nil {
			l.WithError(err).Fatal("failed to set up tracing")
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				l.WithError(err).Warn("failed to flush spans")
			}
		}()
		handler = tracing.Handler(handler, tp, tracing.ServiceName)
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.WithField("addr", cfg.HTTPAddr).Info("server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	l.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		l.WithError(err).Error("server forced to shutdown")
	}

	l.Info("server exited gracefully")
}
