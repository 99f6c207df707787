package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tenantkit/pkg/clientip"
	"github.com/dmitrymomot/tenantkit/pkg/config"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/metrics"
	"github.com/dmitrymomot/tenantkit/pkg/pg"
	"github.com/dmitrymomot/tenantkit/pkg/queue"
	"github.com/dmitrymomot/tenantkit/pkg/ratelimiter"
	"github.com/dmitrymomot/tenantkit/pkg/redis"
	"github.com/dmitrymomot/tenantkit/pkg/requestid"
	"github.com/dmitrymomot/tenantkit/pkg/scope"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/svc/auth"
	"github.com/dmitrymomot/tenantkit/svc/company"
	"github.com/dmitrymomot/tenantkit/svc/maintenance"
	"github.com/dmitrymomot/tenantkit/svc/user"
)

const (
	storagePostgres = "postgres"
	storageMemory   = "memory"
)

// appConfig holds application-level settings.
type appConfig struct {
	Storage         string        `env:"APP_STORAGE" envDefault:"postgres"`
	AdminKey        string        `env:"APP_ADMIN_KEY"`
	TenantBatchSize int           `env:"TENANT_BATCH_SIZE" envDefault:"100"`
	TenantCacheTTL  time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`
	TenantCacheSize int           `env:"TENANT_CACHE_SIZE" envDefault:"1000"`

	// Requests per minute; 0 disables the limiter.
	APIRatePerMinute   int `env:"RATE_LIMIT_API_PER_MINUTE" envDefault:"600"`
	LoginRatePerMinute int `env:"RATE_LIMIT_LOGIN_PER_MINUTE" envDefault:"10"`
}

// limitStore is a ratelimiter.Store that holds resources.
type limitStore interface {
	ratelimiter.Store
	Close() error
}

// app holds the wired services shared by every command.
type app struct {
	cfg     appConfig
	log     *slog.Logger
	metrics *metrics.Metrics

	pool  *pgxpool.Pool
	redis *goredis.Client
	cache tenant.Cache

	limits       limitStore
	apiLimiter   *ratelimiter.Bucket // per company, nil when disabled
	loginLimiter *ratelimiter.Bucket // per client ip, nil when disabled

	companies *company.Service
	users     *user.Service
	auth      *auth.Service

	queue    queue.Storage
	enqueuer *queue.Enqueuer
	jobs     *maintenance.Jobs
	runner   *maintenance.Runner

	readiness []func(context.Context) error
}

func newLogger() *slog.Logger {
	var cfg logger.Config
	config.MustLoad(&cfg)
	log := logger.NewFromConfig(cfg, logger.WithContextExtractors(
		tenant.LoggerExtractor(),
		requestid.LoggerExtractor(),
		clientip.LoggerExtractor(),
	))
	logger.SetAsDefault(log)
	return log
}

func newApp(ctx context.Context, log *slog.Logger) (_ *app, err error) {
	a := &app{log: log, metrics: metrics.New("tenantkit")}
	if err := config.Load(&a.cfg); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	var (
		companyStore company.Store
		userStore    scope.Store[*user.User]
	)
	switch a.cfg.Storage {
	case storagePostgres:
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, err
		}
		if a.pool, err = pg.Connect(ctx, pgCfg); err != nil {
			return nil, err
		}
		a.readiness = append(a.readiness, pg.Healthcheck(a.pool))
		companyStore = company.NewPgStore(a.pool)
		userStore = user.NewPgStore(a.pool)
		a.queue = queue.NewPgStorage(a.pool)
	case storageMemory:
		log.WarnContext(ctx, "using in-memory storage, data is lost on exit")
		companyStore = company.NewMemoryStore()
		userStore = user.NewMemoryStore()
		a.queue = queue.NewMemoryStorage()
	default:
		return nil, fmt.Errorf("unknown APP_STORAGE %q", a.cfg.Storage)
	}

	if err := a.initCache(ctx); err != nil {
		return nil, err
	}
	if err := a.initLimiters(); err != nil {
		return nil, err
	}

	a.companies = company.NewService(companyStore, company.WithCache(a.cache), company.WithLogger(log))
	if a.users, err = user.NewService(userStore, user.WithLogger(log)); err != nil {
		return nil, err
	}

	var authCfg auth.Config
	if err := config.Load(&authCfg); err != nil {
		return nil, err
	}
	if a.auth, err = auth.NewService(authCfg, a.companies, a.users, auth.WithLogger(log)); err != nil {
		return nil, err
	}

	if a.enqueuer, err = queue.NewEnqueuer(a.queue); err != nil {
		return nil, err
	}
	a.jobs = maintenance.NewJobs(a.companies, a.users, log)
	a.runner = maintenance.NewRunner(a.companies, a.enqueuer, log,
		tenant.WithBatchSize(a.cfg.TenantBatchSize),
		tenant.WithResultObserver(a.metrics.ObserveTenantRun),
	)

	return a, nil
}

func (a *app) initCache(ctx context.Context) error {
	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		return err
	}
	if !redisCfg.Enabled() {
		a.cache = tenant.NewMemoryCache(a.cfg.TenantCacheSize)
		return nil
	}

	client, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	a.redis = client
	a.readiness = append(a.readiness, redis.Healthcheck(client))
	a.cache = tenant.NewRedisCache(client, redisCfg.KeyPrefix, a.log)
	return nil
}

func (a *app) initLimiters() error {
	if a.redis != nil {
		a.limits = ratelimiter.NewRedisStore(a.redis, "ratelimit:")
	} else {
		a.limits = ratelimiter.NewMemoryStore()
	}

	var err error
	if n := a.cfg.APIRatePerMinute; n > 0 {
		if a.apiLimiter, err = ratelimiter.NewBucket(a.limits, ratelimiter.PerMinute(n)); err != nil {
			return err
		}
	}
	if n := a.cfg.LoginRatePerMinute; n > 0 {
		if a.loginLimiter, err = ratelimiter.NewBucket(a.limits, ratelimiter.PerMinute(n)); err != nil {
			return err
		}
	}
	return nil
}

// Close releases every connection opened by newApp.
func (a *app) Close() {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.limits != nil {
		errs = append(errs, a.limits.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if err := errors.Join(errs...); err != nil {
		a.log.Error("failed to close resources", logger.Error(err))
	}
}
