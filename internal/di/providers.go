package di

import (
	"context"
	"fmt"

	"Hikari/internal/domain/repository"
	"Hikari/internal/handler/api"
	"Hikari/internal/handler/static"
	"Hikari/internal/service/backend"
	"Hikari/internal/service/events"
	"Hikari/internal/service/ratelimit"
	"Hikari/internal/service/snapshot"
	"Hikari/internal/usecase"
	"Hikari/pkg/cache"
	"Hikari/pkg/config"
	xhttp "Hikari/pkg/http"
	pkgkafka "Hikari/pkg/kafka"
	applogger "Hikari/pkg/logger"
	"Hikari/pkg/metrics"
	"Hikari/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
)

// ProvideLogger builds the root logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the Prometheus registry shared by the sync metrics,
// the kafka producer and the HTTP middleware.
func ProvideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideCache selects the response cache for news and alerts. With redis the
// in-process cache fronts it as L1.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	mem := cache.NewMemoryCache(
		cache.WithMemoryMaxSize(cfg.Cache.MaxEntries),
		cache.WithMemoryCleanup(cfg.Cache.Cleanup),
	)
	if cfg.Cache.Backend != "redis" {
		return mem, nil
	}

	rc, err := cache.NewRedisCache(context.Background(),
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		_ = mem.Close()
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(mem, rc, cfg.Backend.CacheTTL), nil
}

// ProvideHoldingsBackend creates the REST client for the holdings backend,
// wrapped with the news and alerts cache.
func ProvideHoldingsBackend(cfg *config.Config, c cache.Service, l *applogger.Logger) repository.HoldingsBackend {
	hc := xhttp.NewClient(
		xhttp.WithBaseURL(cfg.Backend.BaseURL),
		xhttp.WithTimeout(cfg.Backend.Timeout),
	)
	return backend.NewCached(backend.New(hc, l), c, cfg.Backend.CacheTTL, "holdings", l)
}

// ProvideSnapshotSource resolves dashboard.source to a URL or file source.
func ProvideSnapshotSource(cfg *config.Config) repository.SnapshotSource {
	return snapshot.New(cfg.Dashboard.Source, xhttp.NewClient(xhttp.WithTimeout(cfg.Dashboard.Timeout)))
}

// ProvideEventPublisher creates the kafka sync event publisher, or a no-op
// when events are disabled.
func ProvideEventPublisher(cfg *config.Config, reg *prometheus.Registry, l *applogger.Logger) (repository.EventPublisher, error) {
	if !cfg.Events.Enabled {
		return events.Noop{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithTopic(cfg.Events.Topic),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithRequiredAcks(cfg.Events.RequiredAcks),
		pkgkafka.WithBatchTimeout(cfg.Events.BatchTimeout),
		pkgkafka.WithRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	l.Info("publishing sync events",
		applogger.Strings("brokers", cfg.Events.Brokers),
		applogger.String("topic", cfg.Events.Topic),
	)
	labels := map[string]string{"env": cfg.Environment}
	return events.NewKafkaPublisher(producer, events.Encoding(cfg.Events.Encoding), labels, l), nil
}

func ProvideStore() *usecase.Store {
	return usecase.NewStore()
}

func ProvideFetcher(store *usecase.Store, b repository.HoldingsBackend, m repository.Metrics, l *applogger.Logger, cfg *config.Config) *usecase.Fetcher {
	return usecase.NewFetcher(store, b, m, l, cfg.Backend.Timeout)
}

func ProvideScheduler(
	cfg *config.Config,
	store *usecase.Store,
	b repository.HoldingsBackend,
	f *usecase.Fetcher,
	m repository.Metrics,
	pub repository.EventPublisher,
	l *applogger.Logger,
) *usecase.Scheduler {
	return usecase.NewScheduler(usecase.SchedulerConfig{
		Store:     store,
		Backend:   b,
		Fetcher:   f,
		Metrics:   m,
		Publisher: pub,
		Log:       l,
		Interval:  cfg.Polling.Interval,
		Timeout:   cfg.Backend.Timeout,
	})
}

func ProvideHoldingsSync(
	store *usecase.Store,
	b repository.HoldingsBackend,
	s *usecase.Scheduler,
	f *usecase.Fetcher,
	m repository.Metrics,
	pub repository.EventPublisher,
	l *applogger.Logger,
) *usecase.HoldingsSync {
	return usecase.NewHoldingsSync(store, b, s, f, m, pub, l)
}

func ProvideDashboardLoader(
	cfg *config.Config,
	src repository.SnapshotSource,
	m repository.Metrics,
	pub repository.EventPublisher,
	l *applogger.Logger,
) *usecase.DashboardLoader {
	return usecase.NewDashboardLoader(src, m, pub, l, cfg.Dashboard.Timeout)
}

// ProvideHTTPServer registers the companion routes on the echo server.
func ProvideHTTPServer(
	cfg *config.Config,
	l *applogger.Logger,
	reg *prometheus.Registry,
	store *usecase.Store,
	sync *usecase.HoldingsSync,
	loader *usecase.DashboardLoader,
) (*xhttp.Server, error) {
	assets, err := static.New(cfg.Server.StaticDir, l)
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	limiter := ratelimit.New(2, 0.2)
	handlers := []xhttp.Handler{
		api.NewDashboardHandler(loader, limiter, l),
		api.NewHoldingsHandler(sync, limiter, nil, l),
		api.NewStreamHandler(store, loader, l),
		// the catch-all asset route goes last
		assets,
	}

	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(!cfg.Server.DisableCORS),
	}
	if !cfg.Metrics.Disabled {
		opts = append(opts, xhttp.WithMetrics(reg, cfg.Metrics.Path))
	}
	return xhttp.NewServer(l, handlers, opts...), nil
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	sync *usecase.HoldingsSync,
	loader *usecase.DashboardLoader,
	pub repository.EventPublisher,
	c cache.Service,
	srv *xhttp.Server,
) *server.App {
	return server.New(cfg, l, sync, loader, pub, c, srv)
}
