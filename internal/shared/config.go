package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	Workers         int
	PollInterval    time.Duration
	ArrivalInterval time.Duration
	DrainTimeout    time.Duration
	ShutdownGrace   time.Duration
	RequestsFile    string
	RequestsURL     string
	FeedKey         string
	CacheTTL        time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("not a number; using default")
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		MySQLDSN:        env("MYSQL_DSN", ""),
		RedisAddr:       env("REDIS_ADDR", ""),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		Workers:         atoi("WORKERS", 10),
		PollInterval:    time.Duration(atoi("POLL_INTERVAL_MS", 100)) * time.Millisecond,
		ArrivalInterval: time.Duration(atoi("ARRIVAL_INTERVAL_MS", 2000)) * time.Millisecond,
		DrainTimeout:    time.Duration(atoi("DRAIN_TIMEOUT_SECONDS", 30)) * time.Second,
		ShutdownGrace:   time.Duration(atoi("SHUTDOWN_GRACE_SECONDS", 5)) * time.Second,
		RequestsFile:    env("REQUESTS_FILE", "booking_requests.json"),
		RequestsURL:     env("REQUESTS_URL", ""),
		FeedKey:         env("FEED_API_KEY", ""),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 2)) * time.Second,
	}
	if c.Workers <= 0 {
		log.Warn().Int("workers", c.Workers).Msg("WORKERS must be positive; using 1")
		c.Workers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
