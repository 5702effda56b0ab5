package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	DataSource string // file|http|mysql
	DataPath   string
	DataURL    string
	MySQLDSN   string

	RedisAddr string // empty disables the view cache
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	DefaultPlaces        int
	KeywordsPerSentiment int
	TopKeywords          int
	RespectFilter        bool

	ImportWorkers int
	ImportBatch   int
	ReloadURL     string // API reload endpoint the importer calls when done
	FetchRPS      int
}

func Load() Config {
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),

		DataSource: strings.ToLower(env("DATA_SOURCE", "file")),
		DataPath:   env("DATA_PATH", "data/reviews.csv"),
		DataURL:    env("DATA_URL", ""),
		MySQLDSN:   env("MYSQL_DSN", "root:root@tcp(localhost:3306)/reviews?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),

		RedisAddr: env("REDIS_ADDR", ""),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		DefaultPlaces:        atoi("DEFAULT_PLACES", 10),
		KeywordsPerSentiment: atoi("KEYWORDS_PER_SENTIMENT", 5),
		TopKeywords:          atoi("TOP_KEYWORDS", 10),
		RespectFilter:        boolean("KEYWORDS_RESPECT_FILTER", false),

		ImportWorkers: atoi("IMPORT_WORKERS", 4),
		ImportBatch:   atoi("IMPORT_BATCH", 500),
		ReloadURL:     env("RELOAD_URL", ""),
		FetchRPS:      atoi("FETCH_RPS", 5),
	}
	switch c.DataSource {
	case "file", "http", "mysql":
	default:
		log.Warn().Str("DATA_SOURCE", c.DataSource).Msg("unknown DATA_SOURCE, using file")
		c.DataSource = "file"
	}
	if c.DataSource == "http" && c.DataURL == "" {
		log.Warn().Msg("DATA_SOURCE=http but DATA_URL is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str(k, v).Msg("not an integer, using default")
	}
	return def
}

func boolean(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Warn().Str(k, v).Msg("not a boolean, using default")
	}
	return def
}
