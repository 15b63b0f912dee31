package app

import (
	"context"
	"fmt"
	"time"

	"Gin_postgres_redis_asset_tool/config"
	"Gin_postgres_redis_asset_tool/db"
	"Gin_postgres_redis_asset_tool/lifecycle"
	"Gin_postgres_redis_asset_tool/locker"
	"Gin_postgres_redis_asset_tool/memstore"
	"Gin_postgres_redis_asset_tool/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router   *gin.Engine
	DB       *gorm.DB // nil with the memory store
	RDB      redis.UniversalClient
	Store    lifecycle.Store
	Locker   lifecycle.Locker
	Sessions SessionReader
	Config   *config.Config
	Log      *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{Config: cfg, Log: log}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	a.RDB = rdb
	a.Sessions = session.NewAppSessionStore(rdb)

	// --- Entity store ---
	switch cfg.DB.Driver {
	case config.StoreMemory:
		ms := memstore.New()
		if cfg.DB.SeedFile != "" {
			if err := ms.LoadSeed(cfg.DB.SeedFile); err != nil {
				a.Close()
				return nil, err
			}
		}
		a.Store = ms
		log.Warn("using in-memory store, data is lost on restart")
	default:
		conn, err := db.ConnectDB(DatabaseURL(cfg), log.Named("db"))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.DB = conn
		a.Store = db.NewRepo(conn)
	}

	// --- Per-asset lock ---
	if cfg.Lock.Driver == config.LockLocal {
		a.Locker = locker.NewLocal()
	} else {
		a.Locker = locker.NewRedis(rdb, cfg.Lock.TTL, log)
	}

	// --- Gin ---
	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log.Named("http")))
	useCORS(r, cfg.Server.WebOrigin)
	a.Router = r

	return a, nil
}

// DatabaseURL prefers DATABASE_URL and falls back to the DB_* parts.
func DatabaseURL(cfg *config.Config) string {
	if cfg.DB.URL != "" {
		return cfg.DB.URL
	}
	return db.DSN(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
}

// RetryOptions turns the retry config into lifecycle options.
func (a *App) RetryOptions() []lifecycle.RetryOption {
	if a.Config == nil {
		return nil
	}
	return []lifecycle.RetryOption{
		lifecycle.WithMaxAttempts(a.Config.Retry.MaxAttempts),
		lifecycle.WithBaseDelay(a.Config.Retry.BaseDelay),
	}
}

func (a *App) Close() {
	if a.RDB != nil {
		_ = a.RDB.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
