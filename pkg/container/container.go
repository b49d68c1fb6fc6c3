package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore-catalog/internal/config"
	"bookstore-catalog/internal/domains/book/handler"
	"bookstore-catalog/internal/domains/book/repository"
	"bookstore-catalog/internal/domains/book/service"
	infraCache "bookstore-catalog/internal/infrastructure/cache"
	"bookstore-catalog/internal/infrastructure/database"
	"bookstore-catalog/pkg/cache"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

// Container holds every long-lived dependency of the API process.
//
// Initialization order:
//  1. Config
//  2. Store (Postgres or SQLite) and migrations
//  3. Cache (Redis when enabled, otherwise a no-op)
//  4. Repository -> Service -> Handler
type Container struct {
	Config *config.Config

	// Exactly one of Postgres / SQLite is set, per Config.Database.Driver.
	Postgres *database.PostgresDB
	SQLite   *database.SQLiteDB
	Cache    cache.Cache

	BookRepo    repository.RepositoryInterface
	BookService service.ServiceInterface
	BookHandler *handler.Handler
}

// NewContainer loads the config from the environment and builds the graph.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return Build(ctx, cfg)
}

// Build wires the graph for cfg. On error everything opened so far is closed.
func Build(ctx context.Context, cfg *config.Config) (_ *Container, err error) {
	log.Info().Str("env", cfg.App.Environment).Str("driver", cfg.Database.Driver).Msg("[CONTAINER] Initializing")

	c := &Container{Config: cfg}
	defer func() {
		if err != nil {
			c.Cleanup()
		}
	}()

	if err := c.initStore(ctx); err != nil {
		return nil, err
	}
	c.initCache(ctx)

	c.BookService = service.NewService(c.BookRepo, c.Cache, time.Duration(cfg.Redis.TTLSecs)*time.Second)
	c.BookHandler = handler.NewHandler(c.BookService)

	log.Info().Msg("[CONTAINER] Initialized")
	return c, nil
}

func (c *Container) initStore(ctx context.Context) error {
	switch c.Config.Database.Driver {
	case config.DriverPostgres:
		dbConfig, err := config.LoadDatabaseConfig()
		if err != nil {
			return fmt.Errorf("failed to load database config: %w", err)
		}

		pg := database.NewPostgresDB(dbConfig)
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := pg.Connect(connectCtx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.Postgres = pg
		if err := pg.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}

		if c.Config.Database.AutoMigrate {
			sqlDB := stdlib.OpenDBFromPool(pg.Pool)
			err := database.MigrateUp(ctx, sqlDB, config.DriverPostgres)
			sqlDB.Close()
			if err != nil {
				return err
			}
		}
		c.BookRepo = repository.NewPostgresRepository(pg.Pool)

	case config.DriverSQLite:
		lite, err := database.OpenSQLite(ctx, c.Config.Database.SQLitePath)
		if err != nil {
			return err
		}
		c.SQLite = lite

		if c.Config.Database.AutoMigrate {
			if err := database.MigrateUp(ctx, lite.DB, config.DriverSQLite); err != nil {
				return err
			}
		}
		c.BookRepo = repository.NewSQLiteRepository(lite.DB)

	default:
		return fmt.Errorf("unsupported driver %q", c.Config.Database.Driver)
	}
	return nil
}

// initCache falls back to a no-op cache; the catalog works without Redis.
func (c *Container) initCache(ctx context.Context) {
	c.Cache = cache.NewNop()
	if !c.Config.Redis.Enabled {
		log.Info().Msg("[CONTAINER] Cache disabled")
		return
	}

	rc := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("[CONTAINER] Redis unavailable, continuing without cache")
		_ = rc.Close()
		return
	}
	c.Cache = rc
}

// ComponentHealth is one line of the health report.
type ComponentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type HealthReport struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
	Pool   *database.PoolStats        `json:"pool,omitempty"`
}

// Health pings the store and, when Redis is in use, the cache. Only the
// store decides Healthy; a broken cache is reported as degraded.
func (c *Container) Health(ctx context.Context) (HealthReport, bool) {
	report := HealthReport{Status: "ok", Checks: map[string]ComponentHealth{}}
	healthy := true

	if err := c.BookService.Ping(ctx); err != nil {
		report.Checks["store"] = ComponentHealth{Status: "down", Error: err.Error()}
		report.Status = "down"
		healthy = false
	} else {
		report.Checks["store"] = ComponentHealth{Status: "up"}
	}
	if c.Postgres != nil {
		if stats, err := c.Postgres.Stats(); err == nil {
			report.Pool = stats
		}
	}

	if _, isRedis := c.Cache.(*infraCache.RedisCache); isRedis {
		if err := c.Cache.Ping(ctx); err != nil {
			report.Checks["cache"] = ComponentHealth{Status: "down", Error: err.Error()}
			if healthy {
				report.Status = "degraded"
			}
		} else {
			report.Checks["cache"] = ComponentHealth{Status: "up"}
		}
	}
	return report, healthy
}

// Cleanup closes whatever Build opened. Safe to call more than once.
func (c *Container) Cleanup() {
	var errs []error
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		errs = append(errs, rc.Close())
		c.Cache = cache.NewNop()
	}
	if c.Postgres != nil {
		errs = append(errs, c.Postgres.Close())
		c.Postgres = nil
	}
	if c.SQLite != nil {
		errs = append(errs, c.SQLite.Close())
		c.SQLite = nil
	}
	if err := errors.Join(errs...); err != nil {
		log.Warn().Err(err).Msg("[CONTAINER] Cleanup finished with errors")
		return
	}
	log.Info().Msg("[CONTAINER] Cleanup completed")
}
