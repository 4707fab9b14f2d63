package server

import (
	"context"
	"fmt"
	"time"

	"TradeFire/internal/domain/repository"
	"TradeFire/pkg/cache"
	"TradeFire/pkg/config"
	xhttp "TradeFire/pkg/http"
	pkgkafka "TradeFire/pkg/kafka"
	applogger "TradeFire/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	consumer   *pkgkafka.Consumer
	kh         pkgkafka.MessageHandler
	publisher  repository.ReportPublisher
	cache      cache.Service
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	publisher repository.ReportPublisher,
	c cache.Service,
) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		logger:     l,
		httpServer: httpServer,
		publisher:  publisher,
		cache:      c,
	}
}

// SetConsumer enables the Kafka signal ingress.
func (a *App) SetConsumer(c *pkgkafka.Consumer, h pkgkafka.MessageHandler) {
	a.consumer = c
	a.kh = h
}

// Logger returns the application logger.
func (a *App) Logger() *applogger.Logger { return a.logger }

// Run starts the HTTP server and the optional consumer, then blocks until
// ctx is cancelled and shuts everything down.
func (a *App) Run(ctx context.Context) error {
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		if err := a.consumer.Start(); err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
		a.logger.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("tradefire started",
		applogger.String("env", a.cfg.Environment),
		applogger.Bool("email", a.cfg.EmailConfigured()),
		applogger.Bool("sms", a.cfg.SMSConfigured()),
		applogger.Bool("kafka", a.cfg.KafkaEnabled()),
	)

	<-ctx.Done()
	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops intake first, then closes sinks.
func (a *App) shutdown() error {
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.logger.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("report publisher close error", applogger.Error(err))
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
