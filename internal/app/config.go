package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/yungbote/lessonplan-backend/internal/data/db"
)

// envFiles are loaded in order when present; earlier files win.
var envFiles = []string{".env.development.local", ".env"}

type Config struct {
	LogMode     string `envconfig:"LOG_MODE" default:"development"`
	Port        string `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Version     string `envconfig:"VERSION" default:"dev"`

	DBDriver         string `envconfig:"DB_DRIVER" default:"postgres"`
	PostgresDSN      string `envconfig:"POSTGRES_DSN"`
	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD"`
	PostgresName     string `envconfig:"POSTGRES_NAME" default:"lessonplan"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	SQLitePath       string `envconfig:"SQLITE_PATH" default:"lessonplan.db"`
	AutoMigrate      bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	RedisAddr          string        `envconfig:"REDIS_ADDR"`
	RedisPassword      string        `envconfig:"REDIS_PASSWORD"`
	RedisDB            int           `envconfig:"REDIS_DB" default:"0"`
	CurriculumCacheTTL time.Duration `envconfig:"CURRICULUM_CACHE_TTL" default:"5m"`

	CORSOrigins      []string      `envconfig:"CORS_ORIGINS"`
	AICallLogEnabled bool          `envconfig:"AI_CALL_LOG_ENABLED" default:"false"`
	MetricsAddr      string        `envconfig:"METRICS_ADDR"`
	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// LoadConfig reads .env files (if any) and then the process environment.
func LoadConfig() (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	return cfg, nil
}

func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) Database() db.Config {
	return db.Config{
		Driver:     c.DBDriver,
		DSN:        c.PostgresDSN,
		Host:       c.PostgresHost,
		Port:       c.PostgresPort,
		User:       c.PostgresUser,
		Password:   c.PostgresPassword,
		Name:       c.PostgresName,
		SSLMode:    c.PostgresSSLMode,
		SQLitePath: c.SQLitePath,
	}
}
