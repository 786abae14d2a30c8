package di

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/repository"
	"StockPulse/internal/handler/api"
	"StockPulse/internal/handler/ws"
	internalrepo "StockPulse/internal/repository"
	"StockPulse/internal/registry"
	icache "StockPulse/internal/service/cache"
	"StockPulse/internal/service/marketdata"
	"StockPulse/internal/usecase"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	pkgkafka "StockPulse/pkg/kafka"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := &applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if lc.Level == "" {
		lc.Level = "info"
	}
	if lc.Format == "" {
		lc.Format = "console"
	}
	if lc.Output == "" {
		lc.Output = "stdout"
	}
	return applogger.New(lc)
}

// ProvideRegistry creates the model registry with its artifact catalog and
// remote fallback client.
func ProvideRegistry(cfg *config.Config, l *applogger.Logger) (*registry.Registry, error) {
	catalog, err := registry.NewCatalog(cfg.Models.Dir, cfg.Models.ExtendedFile, cfg.Models.OriginalFile)
	if err != nil {
		return nil, fmt.Errorf("model catalog: %w", err)
	}
	timeout := cfg.Models.DownloadTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	reg := registry.New(catalog, cfg.Models.RemoteBaseURL, xhttp.NewClient(xhttp.WithTimeout(timeout)))
	reg.SetLogger(l)
	return reg, nil
}

// ProvideBarSource creates the daily bar source over the candle API.
func ProvideBarSource(cfg *config.Config) repository.BarSource {
	timeout := cfg.MarketData.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return marketdata.New(cfg.MarketData.BaseURL, cfg.MarketData.APIKey, timeout)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// prediction log is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvidePredictionStore creates the ClickHouse prediction log, or nil when
// ClickHouse is disabled.
func ProvidePredictionStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) (repository.PredictionStore, error) {
	if chClient == nil {
		return nil, nil
	}
	store := internalrepo.NewClickHousePredictionLog(chClient, cfg.ClickHouse.Database+".predictions")
	store.SetLogger(l)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when publishing is
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher creates the Kafka prediction publisher, or nil.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPredictionPublisher(producer, cfg.Kafka.Topic)
}

// ProvideCache creates the response cache: Redis when configured, otherwise
// an in-process TTL cache.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvidePredictor wires the prediction pipeline use case.
func ProvidePredictor(
	bars repository.BarSource,
	reg *registry.Registry,
	m repository.Metrics,
	store repository.PredictionStore,
	pub repository.Publisher,
	l *applogger.Logger,
) *usecase.Predictor {
	p := usecase.NewPredictor(bars, reg)
	p.SetLogger(l)
	p.SetMetrics(m)
	p.SetAuditTrail(store, pub)
	return p
}

// ProvidePredictHandler creates the HTTP handler with its response cache.
func ProvidePredictHandler(
	l *applogger.Logger,
	pred *usecase.Predictor,
	bars repository.BarSource,
	reg *registry.Registry,
	cache icache.BytesCache,
	cfg *config.Config,
) *api.PredictHandler {
	h := api.NewPredictHandler(l, pred, bars, reg)
	h.SetCache(cache)
	if cfg.Cache.TTL > 0 {
		h.SetCacheTTL(cfg.Cache.TTL)
	}
	return h
}

// ProvideStreamer creates the WebSocket broadcaster, or nil when streaming
// is disabled.
func ProvideStreamer(cfg *config.Config, pred *usecase.Predictor, l *applogger.Logger) *ws.Streamer {
	if !cfg.Stream.Enabled {
		return nil
	}
	s := ws.NewStreamer(pred, cfg.Stream.Symbols, cfg.Stream.Interval, cfg.MarketData.DefaultDays)
	s.SetLogger(l)
	return s
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.PredictHandler,
	streamer *ws.Streamer,
	chClient *pkgch.Client,
	pub repository.Publisher,
) *server.App {
	return server.New(cfg, l, handler, streamer, chClient, pub)
}
