package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/lessonplan-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lessonplan-backend/internal/http/middleware"
	"github.com/yungbote/lessonplan-backend/internal/observability"
	"github.com/yungbote/lessonplan-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string
	ServiceName string

	LessonPlanHandler *httpH.LessonPlanHandler
	CurriculumHandler *httpH.CurriculumHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "lessonplan-backend"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics", "/healthcheck"))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}

	// Metrics
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Lesson plans
	if cfg.LessonPlanHandler != nil {
		gemini := r.Group("/gemini")
		gemini.POST("/generate-lesson-plan", cfg.LessonPlanHandler.GenerateLessonPlan)
		gemini.POST("/chat-with-lesson-plan", cfg.LessonPlanHandler.ChatWithLessonPlan)
	}

	// Curriculum
	if cfg.CurriculumHandler != nil {
		curr := r.Group("/curriculum")
		curr.GET("", cfg.CurriculumHandler.ListLessons)
		curr.POST("", cfg.CurriculumHandler.CreateLesson)
		curr.PUT("", cfg.CurriculumHandler.UpsertLessons)
		curr.GET("/:number", cfg.CurriculumHandler.GetLesson)
		curr.DELETE("/:number", cfg.CurriculumHandler.DeleteLesson)
	}

	return r
}
