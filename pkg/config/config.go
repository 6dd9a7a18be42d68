package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string
	Environment string
	LogLevel    string

	ServerPort int

	DatabaseURL string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte

	RedisURL string

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string
	ElasticIndex    string

	KafkaBrokers []string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "techstore"),
		Environment: EnvDefault("APP_ENV", "development"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),

		RedisURL: os.Getenv("REDIS_URL"),

		ElasticURL:      os.Getenv("ES_URL"),
		ElasticUser:     os.Getenv("ES_USER"),
		ElasticPassword: os.Getenv("ES_PASSWORD"),
		ElasticIndex:    EnvDefault("ES_INDEX", "products"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
