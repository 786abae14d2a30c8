package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"StockPulse/internal/domain/repository"
	"StockPulse/internal/handler/api"
	"StockPulse/internal/handler/ws"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	handler    *api.PredictHandler
	streamer   *ws.Streamer
	chClient   *pkgch.Client
	publisher  repository.Publisher
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.PredictHandler,
	streamer *ws.Streamer,
	chClient *pkgch.Client,
	publisher repository.Publisher,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		handler:   handler,
		streamer:  streamer,
		chClient:  chClient,
		publisher: publisher,
	}
}

// routes registers every HTTP surface on one Echo instance.
type routes struct {
	handler  *api.PredictHandler
	streamer *ws.Streamer
}

func (r routes) RegisterRoutes(e *echo.Echo) {
	r.handler.RegisterRoutes(e)
	if r.streamer != nil {
		r.streamer.RegisterRoutes(e)
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(routes{handler: a.handler, streamer: a.streamer},
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.streamer != nil {
		go a.streamer.Run(ctx)
		a.l.Info("prediction stream started",
			applogger.Strings("symbols", a.cfg.Stream.Symbols),
			applogger.Duration("interval_ms", a.cfg.Stream.Interval))
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("serving predictions", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	cancel()
	return a.shutdown(context.Background())
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
