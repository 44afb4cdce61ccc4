package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"StockTiming/internal/handler/api"
	"StockTiming/internal/service/ws"
	"StockTiming/internal/usecase"
	pkgch "StockTiming/pkg/clickhouse"
	"StockTiming/pkg/config"
	xhttp "StockTiming/pkg/http"
	pkgkafka "StockTiming/pkg/kafka"
	applogger "StockTiming/pkg/logger"

	domrepo "StockTiming/internal/domain/repository"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	monitor    *usecase.MonitorLoop
	registry   *usecase.EndpointRegistry
	history    *usecase.History
	dispatcher *usecase.DispatchEngine
	gates      *usecase.Gates
	archive    domrepo.SignalArchive
	hub        *ws.Hub
	chClient   *pkgch.Client
	producer   *pkgkafka.Producer
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	monitor *usecase.MonitorLoop,
	registry *usecase.EndpointRegistry,
	history *usecase.History,
	dispatcher *usecase.DispatchEngine,
	gates *usecase.Gates,
	archive domrepo.SignalArchive,
	hub *ws.Hub,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:        cfg,
		logger:     logger,
		monitor:    monitor,
		registry:   registry,
		history:    history,
		dispatcher: dispatcher,
		gates:      gates,
		archive:    archive,
		hub:        hub,
		chClient:   chClient,
		producer:   producer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger

	if err := a.registry.Init(ctx); err != nil {
		l.Error("endpoint registry init failed", applogger.Error(err))
		return err
	}
	if err := a.history.Init(ctx); err != nil {
		l.Error("history init failed", applogger.Error(err))
		return err
	}
	l.Info("state restored",
		applogger.Int("webhooks", len(a.registry.List())),
		applogger.Int("history", a.history.Len()))

	handler := api.NewHandler(l, a.monitor, a.registry, a.history, a.dispatcher, a.gates, a.archive, a.hub)
	a.httpServer = xhttp.NewServer(handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.cfg.Monitor.AutoStart {
		a.monitor.Start(ctx)
		l.Info("monitor started",
			applogger.Strings("symbols", a.cfg.Quotes.Symbols),
			applogger.Duration("interval", a.cfg.Monitor.UpdateInterval))
	} else {
		l.Info("monitor auto-start disabled, waiting for admin trigger")
	}

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.logger

	if a.cfg.Monitor.AutoStart {
		a.monitor.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	if a.hub != nil {
		a.hub.Close()
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			l.Warn("archive close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
