package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/lessonplan-backend/internal/data/db"
	"github.com/yungbote/lessonplan-backend/internal/data/repos"
	httpapi "github.com/yungbote/lessonplan-backend/internal/http"
	"github.com/yungbote/lessonplan-backend/internal/observability"
	"github.com/yungbote/lessonplan-backend/internal/platform/logger"
	"github.com/yungbote/lessonplan-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Redis    *goredis.Client
	Metrics  *observability.Metrics
	Server   *httpapi.Server
	Cfg      Config
	Repos    repos.Repos
	Services Services

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

// New wires storage, upstream candidates, services and routes. The returned App
// owns every connection it opened; call Close when done.
func New(ctx context.Context) (*App, error) {
	a, err := newBase(ctx)
	if err != nil {
		return nil, err
	}

	orch, err := wireOrchestrator(ctx, a.Log, a.Repos, a.Metrics, a.Cfg.AICallLogEnabled)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Services.LessonPlan = services.NewLessonPlanService(a.Log, orch, a.Services.Curriculum, a.Metrics)

	h := wireHandlers(a.Log, a.Services, a.DB, a.Redis)
	a.Server = httpapi.NewServer(httpapi.RouterConfig{
		Log:               a.Log,
		Metrics:           a.Metrics,
		CORSOrigins:       a.Cfg.CORSOrigins,
		ServiceName:       serviceName,
		LessonPlanHandler: h.LessonPlan,
		CurriculumHandler: h.Curriculum,
		HealthHandler:     h.Health,
	})

	a.Log.Info("App initialized",
		"candidates", a.Services.LessonPlan.Candidates(),
		"db_driver", a.Cfg.DBDriver,
		"redis", a.Redis != nil,
		"ai_call_log", a.Cfg.AICallLogEnabled,
	)
	return a, nil
}

// NewCurriculum wires only storage and the curriculum service. No model
// credentials are needed.
func NewCurriculum(ctx context.Context) (*App, error) {
	return newBase(ctx)
}

func newBase(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})
	a.Metrics = observability.Init(log)

	a.dbService, err = db.Open(cfg.Database(), log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}
	a.DB = a.dbService.DB()
	if cfg.AutoMigrate {
		if err := a.dbService.AutoMigrateAll(); err != nil {
			a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}

	a.Redis, err = wireRedis(ctx, log, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Repos = repos.New(a.DB, log)
	a.Services.Curriculum = wireCurriculum(log, cfg, a.DB, a.Repos, a.Redis, a.Metrics)
	return a, nil
}

// Run serves HTTP until ctx is canceled and then drains.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
	if a.Redis != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Redis)
	}
	if a.Cfg.MetricsAddr != "" {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	}
	return a.Server.Run(ctx, a.Cfg.Addr(), a.Cfg.ShutdownTimeout)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
