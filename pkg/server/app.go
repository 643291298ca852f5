package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "CurveScout/internal/domain/repository"
	"CurveScout/internal/usecase"
	"CurveScout/pkg/config"
	xhttp "CurveScout/pkg/http"
	applogger "CurveScout/pkg/logger"
	"CurveScout/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	httpServer *xhttp.Server
	queue      *queue.RedisQueue
	store      drepo.SnapshotStore
	pub        drepo.Publisher
	runner     *usecase.Runner
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	q *queue.RedisQueue,
	store drepo.SnapshotStore,
	pub drepo.Publisher,
	runner *usecase.Runner,
) *App {
	return &App{
		cfg:     cfg,
		log:     log,
		handler: handler,
		queue:   q,
		store:   store,
		pub:     pub,
		runner:  runner,
	}
}

// RunOnce executes a single scoring run and exits. A zero target
// resolves to the newest snapshot date in the store. When outPath is
// non-empty the run result is also written there as JSON.
func (a *App) RunOnce(ctx context.Context, target time.Time, outPath string) error {
	defer a.closeInfra()
	res, err := a.runner.Run(ctx, target)
	if err != nil {
		return err
	}
	if outPath != "" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal run result: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("write run result: %w", err)
		}
		a.log.Info("run result written", applogger.String("path", outPath))
	}
	a.log.Info("run complete",
		applogger.String("data_date", res.DataDate.Format("2006-01-02")),
		applogger.Int("symbols", res.TotalSymbols))
	return nil
}

// Serve starts the queue workers and the HTTP API, then blocks until
// an interrupt or termination signal arrives.
func (a *App) Serve() error {
	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			return err
		}
	}

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("data_source", a.cfg.Data.Source))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(context.Background())
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			a.log.Warn("queue stop error", applogger.Error(err))
		}
	}

	if a.httpServer != nil {
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
		}
	}

	a.closeInfra()
	a.log.Info("shutdown complete")
	return nil
}

func (a *App) closeInfra() {
	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("snapshot store close error", applogger.Error(err))
		}
	}
}
