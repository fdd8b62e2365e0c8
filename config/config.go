package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type (
	Postgres struct {
		User   string
		Pass   string
		Host   string
		Port   string
		DBName string
	}

	Redis struct {
		Addr    string
		DB      int
		Enabled bool
	}

	ServerConfig struct {
		Port   string
		Host   string
		LogLvl string
	}

	// Limits holds the serving-core tunables: the per-client quota, the
	// cache bounds, and the ranking limits.
	Limits struct {
		MaxRequests     int
		Window          time.Duration
		CacheTTL        time.Duration
		CacheMaxEntries int
		DefaultLimit    int
	}

	Config struct {
		Postgres Postgres
		Redis    Redis
		Server   ServerConfig
		Limits   Limits
	}
)

func LoadConfig() *Config {
	// Missing .env just means plain environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Postgres.User = getEnv("DB_USER", "postgres")
	cfg.Postgres.Pass = getEnv("DB_PASS", "postgres")
	cfg.Postgres.Host = getEnv("DB_HOST", "localhost")
	cfg.Postgres.Port = getEnv("DB_PORT", "5432")
	cfg.Postgres.DBName = getEnv("DB_NAME", "financiera")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "false") == "true"

	cfg.Server.LogLvl = getEnv("LOG_LVL", "dev")
	cfg.Server.Port = getEnv("PORT", "8080")
	cfg.Server.Host = getEnv("HOST", "0.0.0.0")

	cfg.Limits.MaxRequests = getEnvInt("RATE_LIMIT_REQUESTS", 100)
	cfg.Limits.Window = getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute)
	cfg.Limits.CacheTTL = getEnvDuration("CACHE_TTL", 60*time.Second)
	cfg.Limits.CacheMaxEntries = getEnvInt("CACHE_MAX_ENTRIES", 1024)
	cfg.Limits.DefaultLimit = getEnvInt("DEFAULT_LIMIT", 10)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}

	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}

	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}

	return defaultValue
}
