package observability

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/yungbote/lessonplan-backend/internal/platform/logger"
)

type OtelConfig struct {
	ServiceName string
	Environment string
	Version     string
}

// tracingEnv is read from OTEL_* variables. The OTLP exporter reads its own
// OTEL_EXPORTER_OTLP_* settings (headers, insecure, timeout).
type tracingEnv struct {
	Enabled      bool    `envconfig:"ENABLED" default:"false"`
	SamplerRatio float64 `envconfig:"SAMPLER_RATIO" default:"1"`
	Endpoint     string  `envconfig:"EXPORTER_OTLP_ENDPOINT"`
}

func (e tracingEnv) ratio() float64 {
	switch {
	case e.SamplerRatio < 0:
		return 0
	case e.SamplerRatio > 1:
		return 1
	default:
		return e.SamplerRatio
	}
}

var (
	otelOnce     sync.Once
	otelShutdown func(context.Context) error
)

func noopShutdown(context.Context) error { return nil }

// InitOTel installs the global tracer provider when OTEL_ENABLED is set. Spans
// cover each HTTP request and every candidate attempt inside it. The returned
// shutdown func is always safe to call.
func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) func(context.Context) error {
	otelOnce.Do(func() {
		otelShutdown = noopShutdown
		if log == nil {
			log = logger.NewNop()
		}
		var env tracingEnv
		if err := envconfig.Process("OTEL", &env); err != nil {
			log.Warn("otel env invalid, tracing disabled", "error", err)
			return
		}
		if !env.Enabled {
			return
		}

		serviceName := strings.TrimSpace(cfg.ServiceName)
		if serviceName == "" {
			serviceName = "lessonplan-backend"
		}
		res, err := resource.New(ctx, resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(strings.TrimSpace(cfg.Version)),
			attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
		))
		if err != nil {
			log.Warn("otel resource init failed (continuing)", "error", err)
		}

		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(env.ratio()))),
			sdktrace.WithResource(res),
		}
		exporter, err := newSpanExporter(ctx, env)
		if err != nil {
			log.Warn("otel exporter init failed (continuing)", "error", err)
		} else {
			opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
		}

		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		otelShutdown = tp.Shutdown

		exporterName := "otlp"
		if env.Endpoint == "" {
			exporterName = "stdout"
		}
		log.Info("otel tracing initialized", "service", serviceName, "exporter", exporterName, "ratio", env.ratio())
	})
	return otelShutdown
}

// newSpanExporter ships spans over OTLP/HTTP, or pretty-prints them to stdout
// when no endpoint is configured.
func newSpanExporter(ctx context.Context, env tracingEnv) (sdktrace.SpanExporter, error) {
	if strings.TrimSpace(env.Endpoint) == "" {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	return otlptracehttp.New(ctx)
}
