package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
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
	SeoBase     string
	SeoLogin    string
	SeoPassword string
	FetchRPS    int
	Workers     int
	JobsFile    string
	CacheTTL    time.Duration
}

func Load() Config {
	// best effort; env wins over .env
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/reviewhub?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		SeoBase:     env("DATAFORSEO_BASE_URL", "https://api.dataforseo.com"),
		SeoLogin:    env("DATAFORSEO_LOGIN", ""),
		SeoPassword: env("DATAFORSEO_PASSWORD", ""),
		FetchRPS:    atoi("FETCH_RPS", 5),
		Workers:     atoi("IMPORT_WORKERS", 4),
		JobsFile:    env("IMPORT_JOBS_FILE", "jobs.json"),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
	}
	if c.SeoLogin == "" || c.SeoPassword == "" {
		log.Warn().Msg("DATAFORSEO credentials are empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
