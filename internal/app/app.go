package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"github.com/achieve-45/ProductCatalogService/internal/client/fakestore"
	"github.com/achieve-45/ProductCatalogService/internal/client/user"
	"github.com/achieve-45/ProductCatalogService/internal/config"
	"github.com/achieve-45/ProductCatalogService/internal/event"
	handler "github.com/achieve-45/ProductCatalogService/internal/handler/http"
	"github.com/achieve-45/ProductCatalogService/internal/repository/postgres"
	redisrepo "github.com/achieve-45/ProductCatalogService/internal/repository/redis"
	"github.com/achieve-45/ProductCatalogService/internal/service"
	"github.com/achieve-45/ProductCatalogService/migrations"
	"github.com/achieve-45/ProductCatalogService/pkg/database"
	"github.com/achieve-45/ProductCatalogService/pkg/health"
	"github.com/achieve-45/ProductCatalogService/pkg/httpclient"
	pkgkafka "github.com/achieve-45/ProductCatalogService/pkg/kafka"
	"github.com/achieve-45/ProductCatalogService/pkg/middleware"
	"github.com/achieve-45/ProductCatalogService/pkg/tracing"
)

const serviceName = "product-catalog-service"

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown tracing.ShutdownFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	traceCfg := tracing.DefaultConfig(serviceName)
	traceCfg.Environment = cfg.Environment
	traceCfg.OTLPEndpoint = cfg.OTELEndpoint
	traceCfg.SampleRate = cfg.OTELSampleRate
	traceCfg.Enabled = cfg.OTELEnabled
	tracerShutdown, err := tracing.InitTracer(ctx, traceCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = tracerShutdown

	// The relational store backs search under either backend.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	a.pool = pool
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, serviceName); err != nil {
		logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		a.closeStores()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	repo := postgres.NewProductRepository(pool)

	var productService service.ProductService
	switch cfg.ProductBackend {
	case config.BackendRemote:
		productService, err = a.remoteService(ctx, healthHandler)
		if err != nil {
			a.closeStores()
			return nil, err
		}
	default:
		productService = a.storageService(ctx, repo, healthHandler)
	}
	logger.Info("product backend selected", slog.String("backend", cfg.ProductBackend))

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(
		handler.RouterConfig{
			ServiceName:       serviceName,
			CalledBy:          cfg.CalledBy,
			CORS:              cors,
			PprofAllowedCIDRs: cfg.PprofAllowedCIDRs,
		},
		handler.NewProductHandler(productService, cfg.CalledBy, logger),
		handler.NewSearchHandler(service.NewSearchService(repo), logger),
		healthHandler,
		logger,
	)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// storageService builds the relational backend with its user-service lookup
// and event producer.
func (a *App) storageService(ctx context.Context, repo *postgres.ProductRepository, h *health.Handler) service.ProductService {
	cfg := a.cfg

	users := user.NewClient(
		a.breaker(h, "user-service", time.Duration(cfg.UserServiceTimeoutSeconds)*time.Second, 0),
		cfg.UserServiceURL,
	)

	var producer service.EventPublisher = event.NopProducer{}
	if cfg.KafkaEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), a.logger)
		if err := a.producer.Ping(ctx); err != nil {
			a.logger.Warn("kafka producer ping failed, continuing in degraded mode",
				slog.String("error", err.Error()),
			)
		} else {
			a.logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
		}
		producer = event.NewProducer(a.producer, a.logger)
		h.RegisterNonCritical("kafka", a.producer.Ping)
	}

	return service.NewStorageProductService(repo, users, producer, a.logger)
}

// remoteService builds the upstream-backed service, reading through Redis
// when the cache is enabled.
func (a *App) remoteService(ctx context.Context, h *health.Handler) (service.ProductService, error) {
	cfg := a.cfg

	upstream := fakestore.NewClient(
		a.breaker(h, "fakestore", time.Duration(cfg.UpstreamTimeoutSeconds)*time.Second, cfg.UpstreamMaxRetries),
		cfg.UpstreamBaseURL,
	)

	var cache service.ProductCache
	if cfg.RedisEnabled {
		redisCfg := database.DefaultRedisConfig()
		redisCfg.Addr = cfg.RedisAddr
		redisCfg.Password = cfg.RedisPass
		redisCfg.DB = cfg.RedisDB

		rdb, err := database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.rdb = rdb
		a.logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
			slog.String("namespace", cfg.CacheNamespace),
		)

		productCache := redisrepo.NewProductCache(rdb, cfg.CacheNamespace)
		h.RegisterNonCritical("redis", productCache.Ping)
		cache = productCache
	}

	return service.NewRemoteProductService(upstream, cache, a.logger), nil
}

// breaker builds a circuit-broken HTTP client and reports its open state as a
// non-critical readiness failure. Retries happen below the breaker, so one
// logical call counts once.
func (a *App) breaker(h *health.Handler, name string, timeout time.Duration, retries int) *httpclient.CircuitBreakerClient {
	clientCfg := httpclient.DefaultConfig()
	if timeout > 0 {
		clientCfg.Timeout = timeout
	}
	clientCfg.Retries = retries

	cbCfg := httpclient.DefaultCircuitBreakerConfig(name)
	cbCfg.Timeout = time.Duration(a.cfg.CBTimeoutSeconds) * time.Second
	cbCfg.Interval = time.Duration(a.cfg.CBIntervalSeconds) * time.Second
	cbCfg.FailureRatio = a.cfg.CBFailureRatio
	cbCfg.MinRequests = a.cfg.CBMinRequests

	cb := httpclient.NewCircuitBreakerClient(httpclient.New(clientCfg), cbCfg, a.logger)
	h.RegisterNonCritical(name, func(context.Context) error {
		if cb.State() == gobreaker.StateOpen {
			return fmt.Errorf("circuit breaker %s is open", cb.Name())
		}
		return nil
	})
	return cb
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			a.logger.Info("shutdown signal received")
		}
		return a.Shutdown()
	})

	return g.Wait()
}

// Shutdown gracefully stops all components in order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush spans of drained requests)
// 3. Kafka producer
// 4. Redis client
// 5. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	errs = append(errs, a.closeStores())

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeStores() error {
	var errs []error
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	return errors.Join(errs...)
}
