package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"CurveScout/internal/domain/repository"
	dsvc "CurveScout/internal/domain/service"
	"CurveScout/internal/handler/api"
	internalrepo "CurveScout/internal/repository"
	"CurveScout/internal/services/commentary"
	"CurveScout/internal/usecase"
	"CurveScout/pkg/cache"
	pkgch "CurveScout/pkg/clickhouse"
	"CurveScout/pkg/config"
	xhttp "CurveScout/pkg/http"
	pkgkafka "CurveScout/pkg/kafka"
	applogger "CurveScout/pkg/logger"
	"CurveScout/pkg/metrics"
	"CurveScout/pkg/queue"
	"CurveScout/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSnapshotStore creates the snapshot store for the configured
// data source. The ClickHouse path owns the client and initializes the
// schema before use.
func ProvideSnapshotStore(cfg *config.Config, l *applogger.Logger) (repository.SnapshotStore, error) {
	if cfg.Data.Source == "csv" {
		return internalrepo.NewCSVSnapshotStore(cfg.Data.CSVDir, l), nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	table := cfg.ClickHouse.Database + "." + cfg.Data.Table

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
		`CREATE TABLE IF NOT EXISTS ` + table + ` (
			symbol String, date Date, close Nullable(Float64),
			macd_line Nullable(Float64), macd_signal Nullable(Float64), macd_histogram Nullable(Float64), macd_line_percentile Nullable(Float64),
			rsi Nullable(Float64), rsi_percentile Nullable(Float64), stoch_k Nullable(Float64), stoch_d Nullable(Float64), cci Nullable(Float64),
			adx Nullable(Float64), di_plus Nullable(Float64), di_minus Nullable(Float64),
			aroon_up Nullable(Float64), aroon_down Nullable(Float64), aroon_oscillator Nullable(Float64),
			aroon_strong_uptrend UInt8 DEFAULT 0, aroon_strong_downtrend UInt8 DEFAULT 0,
			bb_upper Nullable(Float64), bb_middle Nullable(Float64), bb_lower Nullable(Float64),
			atr Nullable(Float64), atr_pct_of_price Nullable(Float64),
			ema_20 Nullable(Float64), ema_50 Nullable(Float64), ema_100 Nullable(Float64), ema_200 Nullable(Float64),
			supertrend_value Nullable(Float64), supertrend_direction Nullable(String),
			price_percentile Nullable(Float64), correlation Nullable(Float64), cointegration_pvalue Nullable(Float64),
			is_outright UInt8 DEFAULT 1, symbol_1 Nullable(String), symbol_2 Nullable(String),
			quarterly UInt8 DEFAULT 0, component_months Nullable(String),
			leg1_quarterly UInt8 DEFAULT 0, leg1_components Nullable(String),
			leg2_quarterly UInt8 DEFAULT 0, leg2_components Nullable(String)
		) ENGINE=ReplacingMergeTree ORDER BY (symbol, date)`,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return internalrepo.NewCHSnapshotStore(client, table, l), nil
}

// ProvideRedisClient creates a shared Redis client for the queue, or
// nil when Redis is disabled.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideCacheService creates the run cache backend per cache.mode.
func ProvideCacheService(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Mode == "memory" {
		return cache.NewMemoryCache(), nil
	}

	host, port, err := splitRedisAddr(cfg.Redis.Addr)
	if err != nil {
		return nil, err
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix("curvescout"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	if cfg.Cache.Mode == "layered" {
		return cache.NewLayeredCache(rc), nil
	}
	return rc, nil
}

func splitRedisAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("redis addr %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("redis addr %q: %w", addr, err)
	}
	return host, port, nil
}

// ProvideRunCache creates the cached run store.
func ProvideRunCache(c cache.Service, cfg *config.Config) repository.RunCache {
	return internalrepo.NewCachedRunStore(c, cfg.Cache.TTL)
}

// ProvidePublisher creates a Kafka publisher, or nil when Kafka is
// disabled (runs are then cached and served over HTTP only).
func ProvidePublisher(cfg *config.Config) (repository.Publisher, error) {
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
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideCommentator creates the commentary client, or nil when no
// commentary service is configured.
func ProvideCommentator(cfg *config.Config, c cache.Service) dsvc.Commentator {
	if cfg.Commentary.URL == "" {
		return nil
	}
	return commentary.NewClient(cfg, c)
}

// ProvideGenerator creates the signal generator from engine config.
func ProvideGenerator(cfg *config.Config, l *applogger.Logger) *usecase.Generator {
	return usecase.NewGenerator(&cfg.Engine, l)
}

// ProvideRunner creates the run pipeline.
func ProvideRunner(
	store repository.SnapshotStore,
	pub repository.Publisher,
	rc repository.RunCache,
	m repository.Metrics,
	commentator dsvc.Commentator,
	gen *usecase.Generator,
	l *applogger.Logger,
) *usecase.Runner {
	return usecase.NewRunner(store, pub, rc, m, commentator, gen, l)
}

// ProvideQueue creates the Redis-backed run queue, or nil when Redis
// is disabled (runs then execute inline on the request path).
func ProvideQueue(cfg *config.Config, l *applogger.Logger, rdb *redis.Client, runner *usecase.Runner) *queue.RedisQueue {
	if rdb == nil {
		return nil
	}
	return queue.NewRedisConsumer(l, &queue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}, rdb, []queue.Job{usecase.NewRunJob(runner, l)}, queue.WithKeyPrefix("curvescout:queue"))
}

// ProvideDispatcher routes run triggers to the queue when available.
func ProvideDispatcher(q *queue.RedisQueue, runner *usecase.Runner) dsvc.RunDispatcher {
	if q == nil {
		return usecase.NewInlineDispatcher(runner)
	}
	return usecase.NewQueueDispatcher(q)
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(
	rc repository.RunCache,
	store repository.SnapshotStore,
	dispatcher dsvc.RunDispatcher,
	cfg *config.Config,
	l *applogger.Logger,
) xhttp.Handler {
	return api.NewSignalsHandler(rc, store, dispatcher, cfg.Queue.MaxRunsPerMinute, l)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	q *queue.RedisQueue,
	store repository.SnapshotStore,
	pub repository.Publisher,
	runner *usecase.Runner,
) *server.App {
	return server.New(cfg, l, handler, q, store, pub, runner)
}
