package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "latido")
	t.Setenv("DB_NAME", "latido")
	t.Setenv("JWT_ACCESS_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 5, cfg.Redis.MinIdleConns)
	assert.Equal(t, "affinity:events", cfg.Redis.Channel)
	assert.Equal(t, 60, cfg.JWT.AccessExpiryMin)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadPoolOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("DB_CONN_MAX_LIFETIME_MIN", "15")
	t.Setenv("REDIS_POOL_SIZE", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 15*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 3, cfg.Redis.PoolSize)
}

func TestLoadRejectsShortSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ACCESS_SECRET", "short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresDatabaseHost(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestConnectionStrings(t *testing.T) {
	db := DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", DBName: "latido", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=latido sslmode=disable", db.GetDSN())
	assert.Equal(t, "postgres://u:p@db:5433/latido?sslmode=disable", db.GetURL())

	redis := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", redis.GetAddr())
}
