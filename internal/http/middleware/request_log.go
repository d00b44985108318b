package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lessonplan-backend/internal/platform/ctxutil"
	"github.com/yungbote/lessonplan-backend/internal/platform/logger"
)

// Keys handlers set on the gin context so the access log can say which
// candidate answered a generation and how many were skipped first.
const (
	CtxKeyCandidate       = "lp.candidate"
	CtxKeyFallbacks       = "lp.fallbacks"
	CtxKeyFailureCategory = "lp.failure_category"
)

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With("component", "access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"route", routeLabel(c),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		for _, k := range []string{CtxKeyCandidate, CtxKeyFallbacks, CtxKeyFailureCategory} {
			if v, ok := c.Get(k); ok {
				fields = append(fields, k[len("lp."):], v)
			}
		}
		if status == 499 {
			fields = append(fields, "client_closed", true)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
