package app

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	redisclient "github.com/yungbote/lessonplan-backend/internal/clients/redis"
	"github.com/yungbote/lessonplan-backend/internal/data/repos"
	httpH "github.com/yungbote/lessonplan-backend/internal/http/handlers"
	"github.com/yungbote/lessonplan-backend/internal/inference/config"
	"github.com/yungbote/lessonplan-backend/internal/inference/engine"
	"github.com/yungbote/lessonplan-backend/internal/inference/router"
	"github.com/yungbote/lessonplan-backend/internal/lessonplan"
	"github.com/yungbote/lessonplan-backend/internal/observability"
	"github.com/yungbote/lessonplan-backend/internal/platform/logger"
	"github.com/yungbote/lessonplan-backend/internal/services"
)

const serviceName = "lessonplan-backend"

type Services struct {
	Curriculum services.CurriculumService
	LessonPlan services.LessonPlanService
}

type Handlers struct {
	LessonPlan *httpH.LessonPlanHandler
	Curriculum *httpH.CurriculumHandler
	Health     *httpH.HealthHandler
}

// wireRedis returns nil when REDIS_ADDR is unset; the curriculum then reads
// straight from the database.
func wireRedis(ctx context.Context, log *logger.Logger, cfg Config) (*goredis.Client, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		log.Info("REDIS_ADDR not set, curriculum cache disabled")
		return nil, nil
	}
	rdb, err := redisclient.NewClient(ctx, log, redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	return rdb, nil
}

func wireCurriculum(log *logger.Logger, cfg Config, db *gorm.DB, r repos.Repos, rdb *goredis.Client, m *observability.Metrics) services.CurriculumService {
	var cache services.ContextCache
	if rdb != nil {
		cache = redisclient.NewContextCache(rdb, log, redisclient.DefaultCurriculumKey, cfg.CurriculumCacheTTL)
	}
	return services.NewCurriculumService(db, log, r.Curriculum, cache, m)
}

func wireOrchestrator(ctx context.Context, log *logger.Logger, r repos.Repos, m *observability.Metrics, callLog bool) (*lessonplan.Orchestrator, error) {
	icfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load model config: %w", err)
	}
	cands, err := router.New(ctx, icfg)
	if err != nil {
		return nil, fmt.Errorf("init candidates: %w", err)
	}

	opts := lessonplan.Options{
		AttemptTimeout: icfg.AttemptTimeout.Duration,
		Temperature:    icfg.Temperature,
		Observers:      []lessonplan.AttemptObserver{services.NewMetricsObserver(m)},
	}
	if icfg.Safety == config.SafetyPermissive {
		opts.Safety = engine.PermissiveSafety()
	}
	if callLog {
		opts.Observers = append(opts.Observers, services.NewCallLogObserver(r.AICallLog, log))
	}
	return lessonplan.NewOrchestrator(log, cands, opts)
}

func wireHandlers(log *logger.Logger, s Services, db *gorm.DB, rdb *goredis.Client) Handlers {
	checks := map[string]httpH.Pinger{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return Handlers{
		LessonPlan: httpH.NewLessonPlanHandler(log, s.LessonPlan),
		Curriculum: httpH.NewCurriculumHandler(log, s.Curriculum),
		Health:     httpH.NewHealthHandler(checks),
	}
}
