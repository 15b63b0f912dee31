package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	LockRedis = "redis"
	LockLocal = "local"
)

type Config struct {
	Env    string
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Lock   LockConfig
	Retry  RetryConfig
}

type ServerConfig struct {
	Port      string
	WebOrigin string
}

// DBConfig selects the entity store. URL wins over the split DB_* vars.
type DBConfig struct {
	Driver   string
	URL      string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SeedFile string
}

type RedisConfig struct {
	Addr     string
	Password string
}

type LockConfig struct {
	Driver string
	TTL    time.Duration
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Load reads the env file (a missing one is fine) and then the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		_ = godotenv.Load()
	}

	lockTTL, err := getenvInt("LOCK_TTL_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	attempts, err := getenvInt("RETRY_MAX_ATTEMPTS", 6)
	if err != nil {
		return nil, err
	}
	baseMS, err := getenvInt("RETRY_BASE_DELAY_MS", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env: getenvWithDefault("APP_ENV", "production"),
		Server: ServerConfig{
			Port:      getenvWithDefault("PORT", "3001"),
			WebOrigin: getenvWithDefault("WEB_ORIGIN", "http://localhost:5173"),
		},
		DB: DBConfig{
			Driver:   getenvWithDefault("STORE_DRIVER", StorePostgres),
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getenvWithDefault("DB_HOST", "127.0.0.1"),
			User:     getenvWithDefault("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getenvWithDefault("DB_NAME", "assets"),
			Port:     getenvWithDefault("DB_PORT", "5432"),
			SeedFile: os.Getenv("SEED_FILE"),
		},
		Redis: RedisConfig{
			Addr:     getenvWithDefault("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Lock: LockConfig{
			Driver: getenvWithDefault("LOCK_DRIVER", LockRedis),
			TTL:    time.Duration(lockTTL) * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts: attempts,
			BaseDelay:   time.Duration(baseMS) * time.Millisecond,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("PORT must be provided")
	}
	switch c.DB.Driver {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StorePostgres, StoreMemory, c.DB.Driver)
	}
	switch c.Lock.Driver {
	case LockRedis, LockLocal:
	default:
		return fmt.Errorf("LOCK_DRIVER must be %q or %q, got %q", LockRedis, LockLocal, c.Lock.Driver)
	}
	if c.Lock.TTL <= 0 {
		return errors.New("LOCK_TTL_SECONDS must be positive")
	}
	if c.Retry.MaxAttempts <= 0 {
		return errors.New("RETRY_MAX_ATTEMPTS must be positive")
	}
	if c.Retry.BaseDelay <= 0 {
		return errors.New("RETRY_BASE_DELAY_MS must be positive")
	}
	return nil
}

// Development reports whether APP_ENV asks for developer-friendly output.
func (c *Config) Development() bool { return c.Env == "development" }

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
