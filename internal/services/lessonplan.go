package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yungbote/lessonplan-backend/internal/lessonplan"
	"github.com/yungbote/lessonplan-backend/internal/observability"
	"github.com/yungbote/lessonplan-backend/internal/platform/apierr"
	"github.com/yungbote/lessonplan-backend/internal/platform/logger"
)

var (
	ErrEmptyPrompt     = apierr.BadRequest("prompt_required", errors.New("O prompt é obrigatório."))
	ErrEmptyChatPrompt = apierr.BadRequest("prompt_required", errors.New("O prompt é obrigatório para o chat."))
)

// ChatInput carries either a complete prompt or the pieces to build one.
// Prompt wins when both are present.
type ChatInput struct {
	Prompt      string
	CurrentPlan *lessonplan.LessonPlan
	Question    string
}

type LessonPlanService interface {
	Generate(ctx context.Context, topic string) (*lessonplan.Result, error)
	Chat(ctx context.Context, in ChatInput) (*lessonplan.Result, error)
	Candidates() []string
}

type lessonPlanService struct {
	log          *logger.Logger
	orchestrator *lessonplan.Orchestrator
	curriculum   CurriculumService
	metrics      *observability.Metrics
}

func NewLessonPlanService(baseLog *logger.Logger, orchestrator *lessonplan.Orchestrator, curriculum CurriculumService, metrics *observability.Metrics) LessonPlanService {
	return &lessonPlanService{
		log:          baseLog.With("service", "LessonPlanService"),
		orchestrator: orchestrator,
		curriculum:   curriculum,
		metrics:      metrics,
	}
}

func (s *lessonPlanService) Candidates() []string { return s.orchestrator.Candidates() }

func (s *lessonPlanService) Generate(ctx context.Context, topic string) (*lessonplan.Result, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyPrompt
	}

	curriculumContext := lessonplan.CurriculumPlaceholder
	if s.curriculum != nil {
		curriculumContext = s.curriculum.PromptContext(ctx)
	}
	prompt := lessonplan.BuildGeneratePrompt(topic, curriculumContext)

	res, err := s.orchestrator.Generate(ctx, prompt)
	s.observe(lessonplan.ActionGenerate, res, err)
	return res, err
}

func (s *lessonPlanService) Chat(ctx context.Context, in ChatInput) (*lessonplan.Result, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" && in.CurrentPlan != nil && strings.TrimSpace(in.Question) != "" {
		built, err := lessonplan.BuildRefinePrompt(in.CurrentPlan, in.Question)
		if err != nil {
			return nil, apierr.BadRequest("invalid_plan", err)
		}
		prompt = built
	}
	if prompt == "" {
		return nil, ErrEmptyChatPrompt
	}

	res, err := s.orchestrator.Chat(ctx, prompt)
	s.observe(lessonplan.ActionChat, res, err)
	return res, err
}

func (s *lessonPlanService) observe(action lessonplan.Action, res *lessonplan.Result, err error) {
	var gerr *lessonplan.GenerationError
	switch {
	case err == nil && res.IsPlan():
		s.metrics.ObserveGeneration(string(action), "plan")
	case err == nil:
		s.metrics.ObserveGeneration(string(action), "text")
	case errors.Is(err, lessonplan.ErrCanceled):
		s.metrics.ObserveGeneration(string(action), "canceled")
	case errors.As(err, &gerr):
		s.metrics.ObserveGeneration(string(action), string(gerr.Category))
	default:
		s.metrics.ObserveGeneration(string(action), "error")
	}
}
