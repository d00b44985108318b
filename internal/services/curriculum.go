package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/yungbote/lessonplan-backend/internal/data/repos"
	"github.com/yungbote/lessonplan-backend/internal/data/repos/curriculum"
	types "github.com/yungbote/lessonplan-backend/internal/domain"
	"github.com/yungbote/lessonplan-backend/internal/lessonplan"
	"github.com/yungbote/lessonplan-backend/internal/observability"
	"github.com/yungbote/lessonplan-backend/internal/pkg/dbctx"
	"github.com/yungbote/lessonplan-backend/internal/platform/apierr"
	"github.com/yungbote/lessonplan-backend/internal/platform/logger"
)

var (
	errLessonNotFound = errors.New("Aula não encontrada.")
	errLessonExists   = errors.New("Já existe uma aula com este número.")
)

// ContextCache holds the formatted curriculum block between writes.
type ContextCache interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, value string) error
	Invalidate(ctx context.Context) error
}

type CurriculumService interface {
	ListLessons(ctx context.Context) ([]*types.CurriculumLesson, error)
	GetLesson(ctx context.Context, number string) (*types.CurriculumLesson, error)
	CreateLesson(ctx context.Context, lesson *types.CurriculumLesson) (*types.CurriculumLesson, error)
	UpsertLessons(ctx context.Context, lessons []*types.CurriculumLesson) ([]*types.CurriculumLesson, error)
	DeleteLesson(ctx context.Context, number string) error
	// PromptContext never fails: lookup errors degrade to the placeholder sentence.
	PromptContext(ctx context.Context) string
}

type curriculumService struct {
	db      *gorm.DB
	log     *logger.Logger
	repo    repos.CurriculumLessonRepo
	cache   ContextCache
	metrics *observability.Metrics
	group   singleflight.Group
	// loadTimeout bounds a shared load so one canceled caller cannot fail the others.
	loadTimeout time.Duration

	// cacheMu orders a load's cache write against invalidation; generation
	// counts writes so a load that read rows before a write never caches them.
	cacheMu    sync.Mutex
	generation uint64
}

const promptContextKey = "prompt_context"

// NewCurriculumService wires the curriculum lookup. cache and metrics may be nil.
func NewCurriculumService(db *gorm.DB, baseLog *logger.Logger, repo repos.CurriculumLessonRepo, cache ContextCache, metrics *observability.Metrics) CurriculumService {
	return &curriculumService{
		db:          db,
		log:         baseLog.With("service", "CurriculumService"),
		repo:        repo,
		cache:       cache,
		metrics:     metrics,
		loadTimeout: 10 * time.Second,
	}
}

// FormatForPrompt renders one `ID: <numero_aula>, Tema: "<tema_aula>"` line per lesson.
func FormatForPrompt(lessons []*types.CurriculumLesson) string {
	lines := make([]string, 0, len(lessons))
	for _, l := range lessons {
		if l == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("ID: %s, Tema: \"%s\"", l.LessonNumber, l.LessonTopic))
	}
	if len(lines) == 0 {
		return lessonplan.CurriculumPlaceholder
	}
	return strings.Join(lines, "\n")
}

func (s *curriculumService) ListLessons(ctx context.Context) ([]*types.CurriculumLesson, error) {
	return s.repo.List(dbctx.New(ctx))
}

func (s *curriculumService) GetLesson(ctx context.Context, number string) (*types.CurriculumLesson, error) {
	lesson, err := s.repo.GetByNumber(dbctx.New(ctx), number)
	if err != nil {
		return nil, lessonError(err)
	}
	return lesson, nil
}

// CreateLesson inserts one lesson; an existing numero_aula is a conflict, not an update.
func (s *curriculumService) CreateLesson(ctx context.Context, lesson *types.CurriculumLesson) (*types.CurriculumLesson, error) {
	out, err := s.repo.Create(dbctx.New(ctx), lesson)
	if err != nil {
		return nil, lessonError(err)
	}
	s.invalidate(ctx)
	s.log.Info("Curriculum lesson created", "numero_aula", out.LessonNumber)
	return out, nil
}

func (s *curriculumService) UpsertLessons(ctx context.Context, lessons []*types.CurriculumLesson) ([]*types.CurriculumLesson, error) {
	var out []*types.CurriculumLesson
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = s.repo.Upsert(dbctx.Context{Ctx: ctx, Tx: tx}, lessons)
		return err
	})
	if err != nil {
		return nil, lessonError(err)
	}
	s.invalidate(ctx)
	s.log.Info("Curriculum lessons upserted", "count", len(out))
	return out, nil
}

func (s *curriculumService) DeleteLesson(ctx context.Context, number string) error {
	if err := s.repo.DeleteByNumber(dbctx.New(ctx), number); err != nil {
		return lessonError(err)
	}
	s.invalidate(ctx)
	s.log.Info("Curriculum lesson deleted", "numero_aula", number)
	return nil
}

func (s *curriculumService) PromptContext(ctx context.Context) string {
	if s.cache != nil {
		val, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			s.metrics.IncCurriculumCache("error")
			s.log.Warn("Curriculum cache read failed", "error", err)
		case ok:
			s.metrics.IncCurriculumCache("hit")
			return val
		default:
			s.metrics.IncCurriculumCache("miss")
		}
	}

	v, err, _ := s.group.Do(promptContextKey, func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		gen := s.currentGeneration()
		lessons, err := s.repo.List(dbctx.New(lctx))
		if err != nil {
			return nil, err
		}
		formatted := FormatForPrompt(lessons)
		s.storeIfCurrent(lctx, gen, formatted)
		return formatted, nil
	})
	if err != nil {
		s.log.Warn("Curriculum lookup failed, using placeholder", "error", err)
		return lessonplan.CurriculumPlaceholder
	}
	return v.(string)
}

// lessonError gives repository failures the HTTP status they map to.
func lessonError(err error) error {
	switch {
	case errors.Is(err, repos.ErrNotFound):
		return apierr.NotFound("not_found", errLessonNotFound)
	case errors.Is(err, repos.ErrDuplicate):
		return apierr.Conflict("duplicate", errLessonExists)
	case errors.Is(err, curriculum.ErrInvalidLesson):
		return apierr.BadRequest("invalid_lesson", err)
	}
	return err
}

func (s *curriculumService) currentGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

// storeIfCurrent caches a loaded context unless a write landed after the load began.
func (s *curriculumService) storeIfCurrent(ctx context.Context, gen uint64, formatted string) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation != gen {
		s.log.Debug("Curriculum changed during load, not caching")
		return
	}
	if err := s.cache.Set(ctx, formatted); err != nil {
		s.log.Warn("Curriculum cache write failed", "error", err)
	}
}

// invalidate runs after a committed write. Callers arriving later start a
// fresh load instead of joining one that may have read the old rows.
func (s *curriculumService) invalidate(ctx context.Context) {
	s.group.Forget(promptContextKey)
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation++
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn("Curriculum cache invalidation failed", "error", err)
	}
}
