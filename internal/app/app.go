package app

import (
	"context"
	"errors"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/riskibarqy/matchday/external/apifootball"
	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/platform/cache"
	"github.com/riskibarqy/matchday/internal/platform/locale"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/metrics"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/riskibarqy/matchday/internal/preference"
	"github.com/riskibarqy/matchday/internal/usecase"
)

// App is the composition root shared by every command.
type App struct {
	Config      config.Config
	Logger      *logging.Logger
	Registry    *prometheus.Registry
	Metrics     *metrics.Collectors
	Cache       *cache.Store
	Preferences *preference.Store
	Hints       *preference.TeamLeagueHints
	Errors      *usecase.APIErrorState
	Provider    *apifootball.Client
	Dashboard   *usecase.DashboardService
	Feed        *usecase.FeedSynchronizer
	Broker      *usecase.Broker

	pool *ants.Pool
}

// Options overrides parts of the wiring, mainly for tests.
type Options struct {
	Backend  cache.Backend
	Provider usecase.FootballProvider
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collectorSet, err := metrics.New(registry)
	if err != nil {
		return nil, crerr.Wrap(err, "register metrics")
	}
	if !cfg.MetricsEnabled {
		collectorSet = nil
	}

	backend := opts.Backend
	if backend == nil {
		backend, err = OpenBackend(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	store, err := cache.Open(ctx, backend, cache.Options{
		MaxBytes:      cfg.CacheMaxBytes,
		Eviction:      cfg.CacheEviction,
		SchemaVersion: cfg.CacheSchemaVersion,
		Logger:        logger,
		Metrics:       collectorSet,
	})
	if err != nil {
		_ = backend.Close()
		return nil, crerr.Wrap(err, "open cache store")
	}

	pool, err := ants.NewPool(cfg.WorkerPoolSize)
	if err != nil {
		_ = store.Close()
		return nil, crerr.Wrap(err, "create worker pool")
	}

	catalog := locale.DefaultCatalog()
	errState := usecase.NewAPIErrorState()

	var client *apifootball.Client
	provider := opts.Provider
	if provider == nil {
		if cfg.APIFootballKey == "" {
			logger.Warn("APIFOOTBALL_KEY is empty, provider calls will be rejected")
		}
		client = apifootball.NewClient(apifootball.ClientConfig{
			BaseURL:       cfg.APIFootballBaseURL,
			APIKey:        cfg.APIFootballKey,
			Timeout:       cfg.APIFootballTimeout,
			Timezone:      cfg.APIFootballTimezone,
			RatePerMinute: cfg.APIFootballRatePerMinute,
			Logger:        logger,
			Metrics:       collectorSet,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.APIFootballCircuitEnabled,
				FailureThreshold: cfg.APIFootballCircuitFailures,
				OpenTimeout:      cfg.APIFootballCircuitOpenFor,
				HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpen,
			},
			ErrorRecorder: errState,
			Catalog:       catalog,
		})
		provider = client
	}

	hints := preference.NewTeamLeagueHints(backend, logger)
	seasons := usecase.NewSeasonResolver(nil, cfg.SeasonFallbackMax, logger.Named("season"))
	dashboard := usecase.NewDashboardService(provider, store, seasons, usecase.DashboardConfig{
		Leagues: cfg.FeedLeagues,
		Catalog: catalog,
		Hints:   hints,
		Errors:  errState,
		Pool:    pool,
		Logger:  logger,
	})

	feed := usecase.NewFeedSynchronizer(dashboard, usecase.FeedConfig{
		Leagues:    cfg.FeedLeagues,
		DaysBefore: cfg.FeedDaysBefore,
		DaysAfter:  cfg.FeedDaysAfter,
		Location:   cfg.FeedLocation,
		Logger:     logger,
		Metrics:    collectorSet,
	})
	broker := usecase.NewBroker(feed, usecase.BrokerConfig{
		PollInterval:  cfg.FeedPollInterval,
		DefaultLocale: cfg.DefaultLocale,
		Logger:        logger,
		Metrics:       collectorSet,
	})

	return &App{
		Config:      cfg,
		Logger:      logger,
		Registry:    registry,
		Metrics:     collectorSet,
		Cache:       store,
		Preferences: preference.NewStore(backend, logger),
		Hints:       hints,
		Errors:      errState,
		Provider:    client,
		Dashboard:   dashboard,
		Feed:        feed,
		Broker:      broker,
		pool:        pool,
	}, nil
}

// OpenBackend builds the storage selected by CACHE_BACKEND.
func OpenBackend(ctx context.Context, cfg config.Config) (cache.Backend, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendBadger:
		backend, err := cache.OpenBadger(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case config.CacheBackendRedis:
		backend, err := cache.NewRedisBackend(ctx, cfg.CacheRedisURL)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case config.CacheBackendMemory, "":
		return cache.NewMemoryBackend(0), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.CacheBackend)
	}
}

// Close stops the broker, drains the worker pool and closes storage.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	a.Broker.Close()
	a.pool.Release()

	var errs []error
	if err := a.Cache.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.Logger.Sync(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
