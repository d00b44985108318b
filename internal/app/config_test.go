package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lessonplan-backend/internal/data/db"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, db.DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 5*time.Minute, cfg.CurriculumCacheTTL)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.AICallLogEnabled)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:8088")
	t.Setenv("DB_DRIVER", " SQLite ")
	t.Setenv("SQLITE_PATH", "/tmp/lp.db")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("CURRICULUM_CACHE_TTL", "30s")
	t.Setenv("AI_CALL_LOG_ENABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8088", cfg.Addr())
	assert.Equal(t, db.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.CurriculumCacheTTL)
	assert.True(t, cfg.AICallLogEnabled)

	dbc := cfg.Database()
	assert.Equal(t, db.DriverSQLite, dbc.Driver)
	assert.Equal(t, "/tmp/lp.db", dbc.SQLitePath)
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	_, err := LoadConfig()
	require.Error(t, err)
}
