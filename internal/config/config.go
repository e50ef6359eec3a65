package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	DBPath          string
	StaticDir       string
	RedisAddr       string
	CacheTTLSeconds int
	RabbitURL       string
	RabbitExchange  string
	RateLimitPerMin int
	Env             string
}

func Load() Config {
	return Config{
		Port:            getenv("APP_PORT", "8000"),
		DBPath:          getenv("DB_PATH", "data/sentences.sqlite3"),
		StaticDir:       getenv("STATIC_DIR", "web/static"),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		CacheTTLSeconds: atoi(getenv("CACHE_TTL_SECONDS", "30")),
		RabbitURL:       getenv("RABBIT_URL", ""),
		RabbitExchange:  getenv("RABBIT_EXCHANGE", "story.events"),
		RateLimitPerMin: atoi(getenv("RATE_LIMIT_PER_MIN", "30")),
		Env:             getenv("APP_ENV", "dev"),
	}
}

func (c Config) Prod() bool { return c.Env == "prod" }

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
