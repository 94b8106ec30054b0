package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aamishhussain23/finacplus-assignment/internal/auth"
	"github.com/aamishhussain23/finacplus-assignment/internal/cache"
	"github.com/aamishhussain23/finacplus-assignment/internal/config"
	"github.com/aamishhussain23/finacplus-assignment/internal/handlers"
	"github.com/aamishhussain23/finacplus-assignment/internal/logging"
	"github.com/aamishhussain23/finacplus-assignment/internal/repo"
	"github.com/aamishhussain23/finacplus-assignment/internal/service"
	"github.com/aamishhussain23/finacplus-assignment/migrations"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	cfg    config.Config
	log    *zap.Logger
	pool   *pgxpool.Pool
	db     *sql.DB
	redis  *redis.Client
	router *gin.Engine
}

// New connects the configured store and cache, applies migrations and
// builds the router. A nil log discards output.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{cfg: cfg, log: log}

	userRepo, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	var userCache *cache.UserCache
	if cfg.Redis.Enabled() {
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		a.redis = rdb
		userCache = cache.NewUserCache(rdb, cfg.Redis.DefaultTTL.Duration())
		// Entries written by a previous process may describe records that no longer exist.
		if err := userCache.InvalidateAll(ctx); err != nil {
			log.Warn("flush user cache", zap.Error(err))
		}
	} else {
		log.Info("redis not configured, caching disabled")
	}

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	userSvc := service.NewUserService(userRepo, userCache, hasher, log)
	a.router = newRouter(cfg, log, handlers.NewUserHandler(userSvc, log))
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	return nil
}

func (a *App) openStore(ctx context.Context) (repo.UserRepo, error) {
	switch a.cfg.Store.Driver {
	case config.StoreDriverMemory:
		a.log.Warn("using in-memory store, records are lost on restart")
		return repo.NewMemoryUserRepo(), nil
	case config.StoreDriverPostgres:
		pool, err := newPostgres(ctx, a.cfg.PG.DSN)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		a.db = stdlib.OpenDBFromPool(pool)

		if err := runMigrations(ctx, a.db, a.log); err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		return repo.NewPGUserRepo(a.db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
	}
}

func newPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// runMigrations applies the embedded goose migrations.
func runMigrations(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(zap.NewStdLog(log.Named("goose")))
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func newRouter(cfg config.Config, log *zap.Logger, users *handlers.UserHandler) *gin.Engine {
	r := gin.New()
	r.Use(logging.GinLogger(log), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	Setup(r, cfg, users)
	return r
}
