package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	PlacesBase string
	PlacesKey  string
	PlacesLang string
	PlacesRPS  int

	AnthropicKey   string
	AnthropicModel string

	SampleMax      int
	CacheFreshness time.Duration // review cache freshness window
	QueryCacheTTL  time.Duration // latest-analysis read cache
	BatchDelay     time.Duration // inter-call pacing in batch mode
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/storelens?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisPass:      env("REDIS_PASSWORD", ""),
		PlacesBase:     env("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		PlacesKey:      env("PLACES_API_KEY", ""),
		PlacesLang:     env("PLACES_LANGUAGE", "ja"),
		PlacesRPS:      atoi("PLACES_RPS", 5),
		AnthropicKey:   env("ANTHROPIC_API_KEY", ""),
		AnthropicModel: env("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
		SampleMax:      atoi("REVIEW_SAMPLE_MAX", 50),
		CacheFreshness: time.Duration(atoi("CACHE_FRESHNESS_DAYS", 7)) * 24 * time.Hour,
		QueryCacheTTL:  time.Duration(atoi("QUERY_CACHE_TTL_SECONDS", 300)) * time.Second,
		BatchDelay:     time.Duration(atoi("BATCH_DELAY_MS", 1000)) * time.Millisecond,
	}
	if c.PlacesKey == "" {
		log.Warn().Msg("PLACES_API_KEY is empty")
	}
	if c.AnthropicKey == "" {
		log.Warn().Msg("ANTHROPIC_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
