package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092 , ,b:9092 "))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("ES_INDEX", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()

	assert.Equal(t, "techstore", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "products", cfg.ElasticIndex)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvVars(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/shop")
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres://u:p@db:5432/shop", cfg.DatabaseURL)
	assert.Equal(t, []byte("access"), cfg.JWTAccessSecret)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestEnvIntDefault_Invalid(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, EnvIntDefault("SOME_INT", 7))
}

func TestEnvDurationDefault(t *testing.T) {
	t.Setenv("SOME_DURATION", "90s")
	assert.Equal(t, 90*time.Second, EnvDurationDefault("SOME_DURATION", time.Minute))

	t.Setenv("SOME_DURATION", "soon")
	assert.Equal(t, time.Minute, EnvDurationDefault("SOME_DURATION", time.Minute))
}

func TestRequire(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Require(Env{Name: "A", Value: "x"}))

	err := Require(Env{Name: "A", Value: "x"}, Env{Name: "B"}, Env{Name: "C"})
	assert.ErrorContains(t, err, "missing required env B")
	assert.ErrorContains(t, err, "missing required env C")
	assert.NotContains(t, err.Error(), "env A")
}
