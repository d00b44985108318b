package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lessonplan-backend/internal/data/repos"
	"github.com/yungbote/lessonplan-backend/internal/data/repos/testutil"
	"github.com/yungbote/lessonplan-backend/internal/inference/engine"
	"github.com/yungbote/lessonplan-backend/internal/inference/engine/mock"
	"github.com/yungbote/lessonplan-backend/internal/inference/router"
	"github.com/yungbote/lessonplan-backend/internal/lessonplan"
	"github.com/yungbote/lessonplan-backend/internal/observability"
	"github.com/yungbote/lessonplan-backend/internal/pkg/dbctx"
	"github.com/yungbote/lessonplan-backend/internal/platform/apierr"
	"github.com/yungbote/lessonplan-backend/internal/platform/ctxutil"
)

type staticCurriculum struct {
	CurriculumService
	block string
}

func (s staticCurriculum) PromptContext(context.Context) string { return s.block }

func newLessonPlanService(t *testing.T, eng engine.Engine, curriculum CurriculumService, metrics *observability.Metrics, observers ...lessonplan.AttemptObserver) LessonPlanService {
	t.Helper()
	cands := []router.Candidate{
		{ID: "gemini-1.5-pro", UpstreamModel: "gemini-1.5-pro", Engine: eng},
		{ID: "gemini-1.5-flash", UpstreamModel: "gemini-1.5-flash", Engine: eng},
	}
	o, err := lessonplan.NewOrchestrator(testutil.Logger(t), cands, lessonplan.Options{Observers: observers})
	require.NoError(t, err)
	return NewLessonPlanService(testutil.Logger(t), o, curriculum, metrics)
}

func TestGenerateInjectsTopicAndCurriculum(t *testing.T) {
	eng := mock.NewScripted().On("gemini-1.5-pro", mock.Reply{Text: "Claro!\n```json\n" + samplePlanJSON + "\n```"})
	svc := newLessonPlanService(t, eng, staticCurriculum{block: "ID: Aula 03, Tema: \"Funções\""}, nil)

	res, err := svc.Generate(context.Background(), "  lógica de programação  ")
	require.NoError(t, err)
	require.True(t, res.IsPlan())
	assert.Equal(t, "Lógica em ação", res.Plan.Title)

	calls := eng.Calls()
	require.Len(t, calls, 1)
	prompt := engine.LastUserContent(calls[0].Messages)
	assert.Contains(t, prompt, `Tema: "lógica de programação"`)
	assert.Contains(t, prompt, `ID: Aula 03, Tema: "Funções"`)
}

func TestGenerateWithoutCurriculumUsesPlaceholder(t *testing.T) {
	eng := mock.NewScripted().On("gemini-1.5-pro", mock.Reply{Text: "Desculpe, não posso ajudar com isso."})
	svc := newLessonPlanService(t, eng, nil, nil)

	res, err := svc.Generate(context.Background(), "lógica de programação")
	require.NoError(t, err)
	assert.False(t, res.IsPlan())
	assert.Equal(t, "Desculpe, não posso ajudar com isso.", res.RawText)
	assert.Contains(t, engine.LastUserContent(eng.Calls()[0].Messages), lessonplan.CurriculumPlaceholder)
}

func TestGenerateRejectsEmptyTopic(t *testing.T) {
	svc := newLessonPlanService(t, mock.NewScripted(), nil, nil)
	_, err := svc.Generate(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyPrompt)
	status, _ := apierr.StatusOf(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "O prompt é obrigatório.", err.Error())
}

func TestChatBuildsRefinePrompt(t *testing.T) {
	eng := mock.NewScripted().On("gemini-1.5-pro", mock.Reply{Text: "Sim, a atividade funciona bem em grupos."})
	svc := newLessonPlanService(t, eng, nil, nil)

	plan, err := lessonplan.ValidatePlan([]byte(samplePlanJSON))
	require.NoError(t, err)

	res, err := svc.Chat(context.Background(), ChatInput{CurrentPlan: plan, Question: "Posso fazer em grupos?"})
	require.NoError(t, err)
	assert.Equal(t, "Sim, a atividade funciona bem em grupos.", res.RawText)

	prompt := engine.LastUserContent(eng.Calls()[0].Messages)
	assert.Contains(t, prompt, "Posso fazer em grupos?")
	assert.Contains(t, prompt, `"tituloAula": "Lógica em ação"`)
}

func TestChatPrefersExplicitPrompt(t *testing.T) {
	eng := mock.NewScripted().On("gemini-1.5-pro", mock.Reply{Text: samplePlanJSON})
	svc := newLessonPlanService(t, eng, nil, nil)

	res, err := svc.Chat(context.Background(), ChatInput{Prompt: "atualize o plano", Question: "ignored"})
	require.NoError(t, err)
	assert.True(t, res.IsPlan())
	assert.Equal(t, "atualize o plano", engine.LastUserContent(eng.Calls()[0].Messages))

	_, err = svc.Chat(context.Background(), ChatInput{Question: "sem plano"})
	assert.ErrorIs(t, err, ErrEmptyChatPrompt)
}

func TestGenerationOutcomeMetrics(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	overloaded := errors.New("googleapi: Error 503: The model is overloaded. Please try again later.")
	eng := mock.NewScripted().
		On("gemini-1.5-pro", mock.Reply{Err: overloaded}).
		On("gemini-1.5-flash", mock.Reply{Err: overloaded})
	svc := newLessonPlanService(t, eng, nil, m, NewMetricsObserver(m))

	_, err := svc.Generate(context.Background(), "frações")
	var gerr *lessonplan.GenerationError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, lessonplan.CategoryUnavailable, gerr.Category)

	body := scrape(t, m)
	assert.Contains(t, body, `lp_generations_total{action="generate",result="upstream_unavailable"} 1`)
	assert.Contains(t, body, `lp_candidate_attempts_total{action="generate",candidate="gemini-1.5-flash",outcome="error"} 1`)
}

func TestCallLogObserverPersistsAttempts(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	rs := repos.New(db, log)

	eng := mock.NewScripted().
		On("gemini-1.5-pro", mock.Reply{Err: &engine.UpstreamError{Engine: "gemini", Model: "gemini-1.5-pro", StatusCode: 404, Err: errors.New("model not found")}}).
		On("gemini-1.5-flash", mock.Reply{Text: samplePlanJSON})
	svc := newLessonPlanService(t, eng, nil, nil, NewCallLogObserver(rs.AICallLog, log))

	ctx := ctxutil.WithTraceData(context.Background(), &ctxutil.TraceData{RequestID: "req-42"})
	res, err := svc.Generate(ctx, "frações")
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-flash", res.Candidate)

	rows, err := rs.AICallLog.ListByRequestID(dbctx.New(context.Background()), "req-42")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first, second := rows[0], rows[1]
	assert.False(t, first.Success)
	assert.Equal(t, "gemini-1.5-pro", first.Model)
	var meta map[string]any
	require.NoError(t, json.Unmarshal(first.Metadata, &meta))
	assert.EqualValues(t, 404, meta["status_code"])
	assert.Equal(t, "error", meta["outcome"])
	assert.True(t, second.Success)
	assert.Equal(t, 2, second.Attempt)
	assert.Equal(t, string(lessonplan.ActionGenerate), second.CallType)
	assert.True(t, strings.Contains(second.Prompt, "frações"))
}

func TestAttemptOutcome(t *testing.T) {
	assert.Equal(t, "success", AttemptOutcome(nil))
	assert.Equal(t, "timeout", AttemptOutcome(lessonplan.ErrAttemptTimeout))
	assert.Equal(t, "canceled", AttemptOutcome(context.Canceled))
	assert.Equal(t, "empty", AttemptOutcome(engine.ErrEmptyResponse))
	assert.Equal(t, "error", AttemptOutcome(errors.New("boom")))
}

func scrape(t *testing.T, m *observability.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
