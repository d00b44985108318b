package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/lessonplan-backend/internal/data/repos"
	types "github.com/yungbote/lessonplan-backend/internal/domain"
	"github.com/yungbote/lessonplan-backend/internal/inference/engine"
	"github.com/yungbote/lessonplan-backend/internal/lessonplan"
	"github.com/yungbote/lessonplan-backend/internal/observability"
	"github.com/yungbote/lessonplan-backend/internal/pkg/dbctx"
	"github.com/yungbote/lessonplan-backend/internal/platform/ctxutil"
	"github.com/yungbote/lessonplan-backend/internal/platform/logger"
)

// AttemptOutcome labels a finished candidate attempt.
func AttemptOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, lessonplan.ErrAttemptTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, engine.ErrEmptyResponse):
		return "empty"
	default:
		return "error"
	}
}

// NewMetricsObserver feeds candidate attempts into prometheus.
func NewMetricsObserver(m *observability.Metrics) lessonplan.AttemptObserver {
	return lessonplan.ObserverFunc(func(_ context.Context, rec lessonplan.AttemptRecord) {
		m.ObserveCandidateAttempt(string(rec.Action), rec.Candidate, AttemptOutcome(rec.Err), rec.Duration)
	})
}

type callLogObserver struct {
	repo    repos.AICallLogRepo
	log     *logger.Logger
	timeout time.Duration
}

// NewCallLogObserver persists every attempt to ai_call_log. Writes outlive the
// request context so a canceled request still leaves its trail.
func NewCallLogObserver(repo repos.AICallLogRepo, baseLog *logger.Logger) lessonplan.AttemptObserver {
	return &callLogObserver{
		repo:    repo,
		log:     baseLog.With("service", "AICallLogObserver"),
		timeout: 5 * time.Second,
	}
}

func (o *callLogObserver) ObserveAttempt(ctx context.Context, rec lessonplan.AttemptRecord) {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
	defer cancel()

	row := &types.AICallLog{
		RequestID:  ctxutil.RequestID(ctx),
		CallType:   string(rec.Action),
		Model:      rec.Candidate,
		Attempt:    rec.Index + 1,
		Prompt:     rec.Prompt,
		Response:   rec.Text,
		Success:    rec.Err == nil,
		DurationMS: rec.Duration.Milliseconds(),
	}
	meta := map[string]any{
		"upstream_model": rec.UpstreamModel,
		"outcome":        AttemptOutcome(rec.Err),
	}
	if rec.Err != nil {
		row.Error = rec.Err.Error()
		var coder interface{ HTTPStatusCode() int }
		if errors.As(rec.Err, &coder) {
			meta["status_code"] = coder.HTTPStatusCode()
		}
	}
	if b, err := json.Marshal(meta); err == nil {
		row.Metadata = datatypes.JSON(b)
	}

	if _, err := o.repo.Create(dbctx.New(wctx), []*types.AICallLog{row}); err != nil {
		o.log.Warn("Failed to persist AI call log", "candidate", rec.Candidate, "error", err)
	}
}
