package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"MacroBoard/internal/handler/api"
	"MacroBoard/internal/usecase"
	"MacroBoard/pkg/cache"
	"MacroBoard/pkg/config"
	xhttp "MacroBoard/pkg/http"
	applogger "MacroBoard/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	lg        *applogger.Logger
	cch       cache.Service
	dash      *usecase.Dashboard
	refresher *usecase.Refresher
	hub       *api.StreamHub
	handler   xhttp.Handler

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	lg *applogger.Logger,
	cch cache.Service,
	dash *usecase.Dashboard,
	refresher *usecase.Refresher,
	hub *api.StreamHub,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		lg:        lg,
		cch:       cch,
		dash:      dash,
		refresher: refresher,
		hub:       hub,
		handler:   handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout.Std(), a.cfg.Server.WriteTimeout.Std(), a.cfg.Server.ShutdownTimeout.Std()),
	}
	if a.cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetricsPath(a.cfg.Metrics.Path))
	}
	a.httpServer = xhttp.NewServer(a.handler, a.lg, opts...)

	// Panel transitions stream out over the websocket hub.
	a.dash.OnTransition(a.hub.Broadcast)
	a.dash.StartAll(ctx)
	a.lg.Info("dashboard panels started")

	if a.cfg.Refresh.Enabled {
		a.refresher.Start(ctx)
	}

	if err := a.httpServer.Start(); err != nil {
		a.lg.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.lg.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.cfg.Refresh.Enabled {
		a.refresher.Stop()
	}
	a.dash.CancelAll()
	a.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout.Std())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.lg.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.cch.Close(); err != nil {
		a.lg.Warn("cache close error", applogger.Error(err))
	}

	a.lg.Info("shutdown complete")
	return nil
}
