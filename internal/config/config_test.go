package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "SQLITE_PATH", "PG_DSN", "REDIS_ADDR", "REDIS_URL", "HTTP_PORT"} {
		t.Setenv(key, "")
	}
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "trello.db")
	t.Setenv("HTTP_PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "trello.db", cfg.DB.SQLitePath)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout.Duration())
	assert.Equal(t, 60*time.Second, cfg.Redis.DefaultTTL.Duration())
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("PG_DSN", "")
	_, err := Load()
	assert.ErrorContains(t, err, "PG_DSN")

	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("PG_DSN", "postgres://u:p@localhost:5432/board")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mongo")
	_, err := Load()
	assert.ErrorContains(t, err, "DB_DRIVER")
}

func TestLoadRedisURLOverridesAddr(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "trello.db")
	t.Setenv("REDIS_ADDR", "ignored:1")
	t.Setenv("REDIS_URL", "redis://default:pw@cache:6379/3")
	t.Setenv("REDIS_DEFAULT_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "pw", cfg.Redis.Password)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 5*time.Minute, cfg.Redis.DefaultTTL.Duration())
}
