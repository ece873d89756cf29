package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Hikari/internal/domain/repository"
	"Hikari/internal/usecase"
	"Hikari/pkg/cache"
	"Hikari/pkg/config"
	xhttp "Hikari/pkg/http"
	applogger "Hikari/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	sync       *usecase.HoldingsSync
	loader     *usecase.DashboardLoader
	publisher  repository.EventPublisher
	cache      cache.Service
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	sync *usecase.HoldingsSync,
	loader *usecase.DashboardLoader,
	publisher repository.EventPublisher,
	c cache.Service,
	httpServer *xhttp.Server,
) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		log:        l.Component("app"),
		sync:       sync,
		loader:     loader,
		publisher:  publisher,
		cache:      c,
		httpServer: httpServer,
	}
}

// Run starts the application and blocks until interrupted or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.initDashboard(ctx)

	if err := a.sync.Start(ctx); err != nil {
		return fmt.Errorf("start polling: %w", err)
	}
	a.log.Info("holdings polling started",
		applogger.String("backend", a.cfg.Backend.BaseURL),
		applogger.Duration("interval_ms", a.cfg.Polling.Interval),
		applogger.Bool("events", a.cfg.Events.Enabled),
	)

	errCh := a.httpServer.Start()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok && err != nil {
			runErr = err
		}
	}

	a.shutdown(context.WithoutCancel(ctx))
	return runErr
}

// initDashboard performs the initial dashboard load. A panic during
// initialization still leaves the canonical dataset installed.
func (a *App) initDashboard(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			a.loader.Recover(fmt.Errorf("dashboard init panic: %v", r))
		}
	}()
	out := a.loader.Load(ctx)
	if out.Degraded {
		a.log.Warn("dashboard started degraded", applogger.String("reason", out.Reason))
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) {
	a.log.Info("shutting down...")

	// drain requests before polling so none reaches a stopped scheduler
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}
	a.sync.Stop()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("event publisher close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
}
