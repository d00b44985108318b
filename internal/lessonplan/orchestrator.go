package lessonplan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/lessonplan-backend/internal/inference/engine"
	"github.com/yungbote/lessonplan-backend/internal/inference/router"
	"github.com/yungbote/lessonplan-backend/internal/platform/logger"
)

// Action names the operation a prompt belongs to.
type Action string

const (
	ActionGenerate Action = "generate"
	ActionChat     Action = "chat"
)

const defaultAttemptTimeout = 60 * time.Second

// Attempt is one failed candidate call.
type Attempt struct {
	Candidate string
	Duration  time.Duration
	Err       error
}

// AttemptRecord is handed to observers after every candidate call.
type AttemptRecord struct {
	Action        Action
	Index         int
	Candidate     string
	UpstreamModel string
	Prompt        string
	Text          string
	Duration      time.Duration
	Err           error
}

type AttemptObserver interface {
	ObserveAttempt(ctx context.Context, rec AttemptRecord)
}

type ObserverFunc func(ctx context.Context, rec AttemptRecord)

func (f ObserverFunc) ObserveAttempt(ctx context.Context, rec AttemptRecord) { f(ctx, rec) }

// Result is a successful generation: either a validated plan or the raw model text.
type Result struct {
	Plan      *LessonPlan
	RawText   string
	Kind      ShapeKind
	Candidate string
	// Failures holds the candidates that failed before Candidate answered.
	Failures []Attempt
}

func (r *Result) IsPlan() bool { return r != nil && r.Plan != nil }

type Options struct {
	AttemptTimeout time.Duration
	Safety         []engine.SafetySetting
	Temperature    *float64
	Observers      []AttemptObserver
}

// Orchestrator tries candidates strictly in order and returns the first usable answer.
type Orchestrator struct {
	log        *logger.Logger
	candidates []router.Candidate
	opts       Options
	tracer     trace.Tracer
}

func NewOrchestrator(log *logger.Logger, candidates []router.Candidate, opts Options) (*Orchestrator, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = defaultAttemptTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}
	cands := make([]router.Candidate, len(candidates))
	copy(cands, candidates)
	return &Orchestrator{
		log:        log.With("service", "LessonPlanOrchestrator"),
		candidates: cands,
		opts:       opts,
		tracer:     otel.Tracer("github.com/yungbote/lessonplan-backend/internal/lessonplan"),
	}, nil
}

func (o *Orchestrator) Candidates() []string { return router.IDs(o.candidates) }

// Generate sends a fully assembled generation prompt. A response that is not a
// valid plan is returned as raw text, never as an error.
func (o *Orchestrator) Generate(ctx context.Context, prompt string) (*Result, error) {
	return o.complete(ctx, ActionGenerate, prompt)
}

// Chat sends a conversational prompt. The reply is a plan when the model
// returned an updated plan, raw text otherwise.
func (o *Orchestrator) Chat(ctx context.Context, prompt string) (*Result, error) {
	return o.complete(ctx, ActionChat, prompt)
}

func (o *Orchestrator) complete(ctx context.Context, action Action, prompt string) (*Result, error) {
	text, cand, failures, err := o.run(ctx, action, prompt)
	if err != nil {
		return nil, err
	}
	shape := Inspect(text)
	res := &Result{Kind: shape.Kind, Candidate: cand, Failures: failures}
	if shape.Kind == ShapePlan {
		res.Plan = shape.Plan
		return res, nil
	}
	res.RawText = shape.Text
	o.log.Info("Model answered without a lesson plan",
		"action", string(action),
		"candidate", cand,
		"shape", shape.Kind.String(),
		"reason", shape.Reason,
	)
	return res, nil
}

func (o *Orchestrator) run(ctx context.Context, action Action, prompt string) (string, string, []Attempt, error) {
	messages := []engine.Message{{Role: engine.RoleUser, Content: prompt}}
	genOpts := engine.GenerateOptions{Temperature: o.opts.Temperature, Safety: o.opts.Safety}

	var failures []Attempt
	var lastErr error
	for i, c := range o.candidates {
		if err := ctx.Err(); err != nil {
			return "", "", failures, fmt.Errorf("%w: %w", ErrCanceled, err)
		}

		start := time.Now()
		text, err := o.attempt(ctx, action, i, c, messages, genOpts)
		elapsed := time.Since(start)

		for _, obs := range o.opts.Observers {
			obs.ObserveAttempt(ctx, AttemptRecord{
				Action:        action,
				Index:         i,
				Candidate:     c.ID,
				UpstreamModel: c.UpstreamModel,
				Prompt:        prompt,
				Text:          text,
				Duration:      elapsed,
				Err:           err,
			})
		}

		if err == nil {
			o.log.Info("Candidate succeeded",
				"action", string(action),
				"candidate", c.ID,
				"attempt", i+1,
				"duration_ms", elapsed.Milliseconds(),
			)
			return text, c.ID, failures, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			o.log.Warn("Generation canceled by caller",
				"action", string(action),
				"candidate", c.ID,
				"attempt", i+1,
			)
			return "", "", failures, fmt.Errorf("%w: %w", ErrCanceled, ctxErr)
		}

		failures = append(failures, Attempt{Candidate: c.ID, Duration: elapsed, Err: err})
		lastErr = err
		o.log.Warn("Candidate failed, trying next",
			"action", string(action),
			"candidate", c.ID,
			"attempt", i+1,
			"duration_ms", elapsed.Milliseconds(),
			"error", err.Error(),
		)
	}

	gerr := ClassifyFailure(action, len(failures), lastErr)
	o.log.Error("All candidates failed",
		"action", string(action),
		"candidates", len(o.candidates),
		"category", string(gerr.Category),
		"error", lastErr,
	)
	return "", "", failures, gerr
}

func (o *Orchestrator) attempt(ctx context.Context, action Action, index int, c router.Candidate, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	actx, cancel := context.WithTimeout(ctx, o.opts.AttemptTimeout)
	defer cancel()

	actx, span := o.tracer.Start(actx, "lessonplan.candidate_attempt", trace.WithAttributes(
		attribute.String("lessonplan.action", string(action)),
		attribute.String("lessonplan.candidate", c.ID),
		attribute.String("lessonplan.upstream_model", c.UpstreamModel),
		attribute.Int("lessonplan.attempt", index+1),
	))
	defer span.End()

	text, err := c.Engine.GenerateText(actx, c.UpstreamModel, messages, opts)
	if err == nil && strings.TrimSpace(text) == "" {
		err = engine.ErrEmptyResponse
	}
	if err != nil && ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s: %w", ErrAttemptTimeout, o.opts.AttemptTimeout, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("lessonplan.response_chars", len(text)))
	return text, nil
}
