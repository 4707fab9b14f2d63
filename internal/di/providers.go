package di

import (
	"fmt"

	"TradeFire/internal/domain/repository"
	"TradeFire/internal/handler/api"
	internalrepo "TradeFire/internal/repository"
	"TradeFire/internal/service/notify"
	"TradeFire/internal/usecase"
	"TradeFire/pkg/cache"
	"TradeFire/pkg/config"
	xhttp "TradeFire/pkg/http"
	pkgkafka "TradeFire/pkg/kafka"
	"TradeFire/pkg/logger"
	"TradeFire/pkg/metrics"
	"TradeFire/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
)

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: "tradefire",
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() repository.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideCache returns Redis behind an in-process L1 when Redis is enabled,
// otherwise a memory-only cache.
func ProvideCache(cfg *config.Config, l *logger.Logger) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		l.Info("report cache: in-memory")
		return cache.NewMemoryCache(cache.WithMemoryDefaultTTL(cfg.Alerts.ReportTTL)), nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("report cache: redis", logger.String("addr", cfg.Redis.Addr))
	return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(500)), nil
}

func ProvideReportStore(c cache.Service, cfg *config.Config) repository.ReportStore {
	return internalrepo.NewCachedReportStore(c, cfg.Alerts.ReportTTL)
}

// ProvideReportPublisher publishes reports to Kafka, or drops them when no
// brokers are configured.
func ProvideReportPublisher(cfg *config.Config) (repository.ReportPublisher, error) {
	if !cfg.KafkaEnabled() {
		return internalrepo.NopReportPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.ReportsTopic), nil
}

func ProvideSubscriberRegistry() repository.SubscriberRegistry {
	return internalrepo.NewMemorySubscriberRegistry()
}

func ProvideProfileStore() repository.ProfileStore {
	return internalrepo.NewMemoryProfileStore()
}

// ProvideSenders builds the channel senders that have credentials.
func ProvideSenders(cfg *config.Config, l *logger.Logger) (repository.Senders, error) {
	return notify.BuildSenders(cfg, l)
}

func ProvideDispatcher(cfg *config.Config, m repository.Metrics, l *logger.Logger) *usecase.Dispatcher {
	return usecase.NewDispatcher(cfg.Alerts.Workers, m, l)
}

// ProvideAlertPipeline creates the signal pipeline with the configured price policy.
func ProvideAlertPipeline(
	cfg *config.Config,
	registry repository.SubscriberRegistry,
	dispatcher *usecase.Dispatcher,
	reports repository.ReportStore,
	publisher repository.ReportPublisher,
	m repository.Metrics,
	l *logger.Logger,
) *usecase.AlertPipeline {
	policy := usecase.PriceRequired
	if !cfg.Alerts.RequirePrice {
		policy = usecase.PriceOptional
	}
	return usecase.NewAlertPipeline(registry, dispatcher,
		usecase.WithNormalizer(usecase.NewSignalNormalizer(policy, nil)),
		usecase.WithLevels(usecase.NewLevelCalculator(cfg.Alerts.StopLossPct, cfg.Alerts.TakeProfitPct)),
		usecase.WithSubject(cfg.Alerts.Subject),
		usecase.WithReportSink(reports, publisher),
		usecase.WithPipelineMetrics(m),
		usecase.WithPipelineLogger(l),
	)
}

func ProvideAlertsHandler(
	cfg *config.Config,
	l *logger.Logger,
	pipeline *usecase.AlertPipeline,
	senders repository.Senders,
	registry repository.SubscriberRegistry,
	profiles repository.ProfileStore,
	reports repository.ReportStore,
	m repository.Metrics,
) *api.AlertsEchoHandler {
	return api.NewAlertsEchoHandler(l, pipeline, senders, registry, profiles, reports, m, cfg.Alerts.WebhookSecret)
}

func ProvideHTTPServer(cfg *config.Config, h *api.AlertsEchoHandler, l *logger.Logger) *xhttp.Server {
	return xhttp.NewServer(h, l,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path),
	)
}

// ProvideKafkaConsumer returns nil when Kafka is not configured.
func ProvideKafkaConsumer(cfg *config.Config, l *logger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.KafkaEnabled() || cfg.Kafka.SignalsTopic == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(l,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.TraceHook())
	return consumer, nil
}

// ProvideKafkaSignalsHandler feeds the signals topic into the pipeline.
func ProvideKafkaSignalsHandler(cfg *config.Config, pipeline *usecase.AlertPipeline, senders repository.Senders, l *logger.Logger) *usecase.KafkaSignalsHandler {
	return usecase.NewKafkaSignalsHandler(cfg.Kafka.SignalsTopic, pipeline, senders, l)
}

func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	srv *xhttp.Server,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSignalsHandler,
	publisher repository.ReportPublisher,
	c cache.Service,
) *server.App {
	app := server.New(cfg, l, srv, publisher, c)
	if consumer != nil {
		app.SetConsumer(consumer, kh)
	}
	return app
}
