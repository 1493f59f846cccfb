package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/todos")
	t.Setenv("APP_MODE", "")
	t.Setenv("AWS_EXECUTION_ENV", "")
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, ModeServer, cfg.Mode)
	assert.False(t, cfg.Serverless())
	assert.Equal(t, 30*time.Second, cfg.MigrationTimeout)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, 120, cfg.APIRateLimit)
	assert.Equal(t, "todo-events", cfg.KafkaTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.True(t, cfg.ExposeErrorDetails)
}

func TestJWTSecretWithoutDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "s3cret")

	assert.Equal(t, "s3cret", JWTSecret())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDetectsLambdaRuntime(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/todos")
	t.Setenv("APP_MODE", "")
	t.Setenv("AWS_EXECUTION_ENV", "AWS_Lambda_provided.al2023")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Serverless())
	assert.True(t, cfg.LogJSON)
}

func TestLoadExplicitModeWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/todos")
	t.Setenv("APP_MODE", "server")
	t.Setenv("AWS_EXECUTION_ENV", "AWS_Lambda_provided.al2023")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ModeServer, cfg.Mode)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/todos")
	t.Setenv("APP_MODE", "batch")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadParsesLists(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/todos")
	t.Setenv("APP_MODE", "server")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("CACHE_TTL_SECONDS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
}
