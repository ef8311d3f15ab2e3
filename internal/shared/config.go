package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	PlacesBase    string
	PlacesKey     string
	PlacesRPS     int
	PlacesTimeout time.Duration
	SuggestTTL    time.Duration
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
		AppEnv:   env("APP_ENV", "prod"),
		HTTPAddr: env("HTTP_ADDR", ":8080"),
		MongoURI: env("MONGODB_URI", ""),
		// MONGO_DB is the legacy name; keep reading it.
		MongoDB:       env("MONGODB_DB", os.Getenv("MONGO_DB")),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		PlacesBase:    env("PLACES_BASE_URL", "https://api.geoapify.com"),
		PlacesKey:     env("PLACES_API_KEY", ""),
		PlacesRPS:     atoi("PLACES_RPS", 5),
		PlacesTimeout: time.Duration(atoi("PLACES_TIMEOUT_SECONDS", 5)) * time.Second,
		SuggestTTL:    time.Duration(atoi("SUGGEST_TTL_HOURS", 24)) * time.Hour,
	}
	if c.PlacesKey == "" {
		log.Warn().Msg("PLACES_API_KEY is empty; place autocomplete will degrade")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
