package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domrepo "StockTiming/internal/domain/repository"
	internalrepo "StockTiming/internal/repository"
	"StockTiming/internal/service/quotes"
	"StockTiming/internal/service/ws"
	"StockTiming/internal/services/advisor"
	"StockTiming/internal/usecase"
	"StockTiming/pkg/cache"
	pkgch "StockTiming/pkg/clickhouse"
	"StockTiming/pkg/config"
	pkgkafka "StockTiming/pkg/kafka"
	applogger "StockTiming/pkg/logger"
	"StockTiming/pkg/metrics"
	"StockTiming/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCache creates the in-memory quote cache.
func ProvideCache() cache.Service {
	return cache.NewMemoryCache(256)
}

// ProvideQuoteSource creates the Alpha Vantage quote client.
func ProvideQuoteSource(cfg *config.Config, c cache.Service) *quotes.AlphaVantageClient {
	return quotes.NewAlphaVantageClient(cfg, c)
}

// ProvideSyntheticSource creates the synthetic fallback generator.
func ProvideSyntheticSource() *quotes.SyntheticSource {
	return quotes.NewSyntheticSource()
}

// ProvideAdvisor creates the AI advisor, or nil when no API key is set.
func ProvideAdvisor(cfg *config.Config) domrepo.Advisor {
	if cfg.Advisor.APIKey == "" {
		return nil
	}
	return advisor.NewOpenAIAdvisor(cfg)
}

// Stores bundles the endpoint and history persistence backends so they can
// share one connection.
type Stores struct {
	Endpoints domrepo.EndpointStore
	History   domrepo.HistoryStore
}

// ProvideStores selects the persistence backend from config.
func ProvideStores(cfg *config.Config) (*Stores, error) {
	switch cfg.Storage.Type {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		rs := internalrepo.NewRedisStore(client, cfg.Redis.KeyPrefix)
		return &Stores{Endpoints: rs, History: internalrepo.NewRedisHistoryStore(rs)}, nil
	default:
		fs, err := internalrepo.NewFileStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, err
		}
		return &Stores{Endpoints: fs, History: internalrepo.NewHistoryFileStore(fs)}, nil
	}
}

// ProvideClickHouseClient creates the ClickHouse client and initializes the
// signal archive schema. Returns nil when the archive is disabled.
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SignalSchema); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideSignalArchive creates the ClickHouse archive, or nil when disabled.
func ProvideSignalArchive(ch *pkgch.Client, l *applogger.Logger) domrepo.SignalArchive {
	if ch == nil {
		return nil
	}
	return internalrepo.NewCHSignalArchive(ch, l)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when no brokers are
// configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideHub creates the websocket broadcast hub.
func ProvideHub(l *applogger.Logger) *ws.Hub {
	return ws.NewHub(l)
}

// ProvidePublishers collects the configured event publishers.
func ProvidePublishers(hub *ws.Hub, producer *pkgkafka.Producer, cfg *config.Config) []domrepo.EventPublisher {
	pubs := []domrepo.EventPublisher{hub}
	if producer != nil {
		pubs = append(pubs, internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic))
	}
	return pubs
}

// ProvideRegistry creates the endpoint registry.
func ProvideRegistry(stores *Stores) *usecase.EndpointRegistry {
	return usecase.NewEndpointRegistry(stores.Endpoints)
}

// ProvideHistory creates the bounded signal history.
func ProvideHistory(stores *Stores, cfg *config.Config) *usecase.History {
	return usecase.NewHistory(stores.History, cfg.Monitor.HistoryCapacity)
}

// ProvideTransport creates the webhook delivery transport.
func ProvideTransport(cfg *config.Config) domrepo.EndpointTransport {
	return internalrepo.NewWebhookTransport(cfg.Webhook.Timeout)
}

// ProvideDispatcher creates the dispatch engine.
func ProvideDispatcher(
	registry *usecase.EndpointRegistry,
	transport domrepo.EndpointTransport,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.DispatchEngine {
	return usecase.NewDispatchEngine(registry, transport, m, l, cfg.Webhook.Username)
}

// ProvideScorer creates the signal scorer.
func ProvideScorer(adv domrepo.Advisor, l *applogger.Logger) *usecase.SignalScorer {
	return usecase.NewSignalScorer(adv, l)
}

// ProvideGates creates the admin gates.
func ProvideGates() *usecase.Gates {
	return usecase.NewGates()
}

// ProvideMonitor creates the monitor loop.
func ProvideMonitor(
	cfg *config.Config,
	primary *quotes.AlphaVantageClient,
	fallback *quotes.SyntheticSource,
	scorer *usecase.SignalScorer,
	dispatcher *usecase.DispatchEngine,
	history *usecase.History,
	archive domrepo.SignalArchive,
	publishers []domrepo.EventPublisher,
	m domrepo.Metrics,
	l *applogger.Logger,
	gates *usecase.Gates,
) *usecase.MonitorLoop {
	mc := usecase.MonitorConfig{
		Symbols:        cfg.Quotes.Symbols,
		UpdateInterval: cfg.Monitor.UpdateInterval,
		SymbolDelay:    cfg.Monitor.SymbolDelay,
		MinConfidence:  cfg.Monitor.MinConfidence,
	}
	return usecase.NewMonitorLoop(mc, primary, fallback, scorer, dispatcher, history, archive, publishers, m, l, gates)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	monitor *usecase.MonitorLoop,
	registry *usecase.EndpointRegistry,
	history *usecase.History,
	dispatcher *usecase.DispatchEngine,
	gates *usecase.Gates,
	archive domrepo.SignalArchive,
	hub *ws.Hub,
	ch *pkgch.Client,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, l, monitor, registry, history, dispatcher, gates, archive, hub, ch, producer)
}
