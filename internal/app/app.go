package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/maharshi-myriadsolutionz/kanlad/internal/cache"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/config"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/repo"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type App struct {
	cfg    config.Config
	pg     *pgxpool.Pool
	sqlite *sql.DB
	redis  *redis.Client
	svc    *service.BoardService
	router *gin.Engine
}

func New(cfg config.Config) (*App, error) {
	a := &App{cfg: cfg}

	boardRepo, err := a.openStore(cfg.DB)
	if err != nil {
		return nil, err
	}

	var boardCache *cache.BoardCache
	if cfg.Redis.Enabled() {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			_ = a.Close(context.Background())
			return nil, err
		}
		a.redis = rdb
		boardCache = cache.NewBoardCache(rdb, cfg.Redis.DefaultTTL.Duration())
	} else {
		log.Info("REDIS_ADDR not set, board cache disabled")
	}

	a.svc = service.NewBoardService(boardRepo, boardCache)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.svc.EnsureDefaultColumn(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	a.router = newRouter(cfg, a.svc)
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
	if a.pg != nil {
		a.pg.Close()
	}
	if a.sqlite != nil {
		return a.sqlite.Close()
	}
	return nil
}

// openStore connects to the configured database and applies migrations.
func (a *App) openStore(cfg config.DBConfig) (repo.BoardRepo, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if err := runPGMigrations(cfg.PGDSN); err != nil {
			return nil, err
		}
		pool, err := newPostgres(cfg.PGDSN)
		if err != nil {
			return nil, err
		}
		a.pg = pool
		log.Info("using postgres store")
		return repo.NewPGBoardRepo(pool), nil
	case config.DriverSQLite:
		db, err := repo.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := repo.RunMigrations(db, repo.DialectSQLite); err != nil {
			_ = db.Close()
			return nil, err
		}
		a.sqlite = db
		log.WithField("path", cfg.SQLitePath).Info("using sqlite store")
		return repo.NewSQLiteBoardRepo(db), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runPGMigrations(dsn string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	return repo.RunMigrations(db, repo.DialectPostgres)
}

func newRouter(cfg config.Config, svc *service.BoardService) *gin.Engine {
	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(requestLogger(log.StandardLogger()), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, svc)
	return r
}
