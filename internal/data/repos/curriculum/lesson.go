package curriculum

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/lessonplan-backend/internal/data/repos/repoerr"
	types "github.com/yungbote/lessonplan-backend/internal/domain"
	"github.com/yungbote/lessonplan-backend/internal/pkg/dbctx"
	"github.com/yungbote/lessonplan-backend/internal/platform/logger"
)

var ErrInvalidLesson = errors.New("curriculum lesson requires numero_aula and tema_aula")

type LessonRepo interface {
	List(dbc dbctx.Context) ([]*types.CurriculumLesson, error)
	GetByNumber(dbc dbctx.Context, number string) (*types.CurriculumLesson, error)
	Create(dbc dbctx.Context, lesson *types.CurriculumLesson) (*types.CurriculumLesson, error)
	Upsert(dbc dbctx.Context, lessons []*types.CurriculumLesson) ([]*types.CurriculumLesson, error)
	DeleteByNumber(dbc dbctx.Context, number string) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{
		db:  db,
		log: baseLog.With("repo", "CurriculumLessonRepo"),
	}
}

// List returns every lesson ordered by id, matching insertion order.
func (r *lessonRepo) List(dbc dbctx.Context) ([]*types.CurriculumLesson, error) {
	var out []*types.CurriculumLesson
	if err := dbc.DB(r.db).Order("id ASC").Find(&out).Error; err != nil {
		return nil, repoerr.MapError(err)
	}
	return out, nil
}

func (r *lessonRepo) GetByNumber(dbc dbctx.Context, number string) (*types.CurriculumLesson, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, repoerr.ErrNotFound
	}
	var lesson types.CurriculumLesson
	err := dbc.DB(r.db).Where("numero_aula = ?", number).First(&lesson).Error
	if err != nil {
		return nil, repoerr.MapError(err)
	}
	return &lesson, nil
}

func (r *lessonRepo) Create(dbc dbctx.Context, lesson *types.CurriculumLesson) (*types.CurriculumLesson, error) {
	if lesson == nil {
		return nil, ErrInvalidLesson
	}
	lesson.Normalize()
	if lesson.LessonNumber == "" || lesson.LessonTopic == "" {
		return nil, ErrInvalidLesson
	}
	if err := dbc.DB(r.db).Create(lesson).Error; err != nil {
		return nil, repoerr.MapError(err)
	}
	return lesson, nil
}

// Upsert inserts lessons or updates them in place when numero_aula already exists.
func (r *lessonRepo) Upsert(dbc dbctx.Context, lessons []*types.CurriculumLesson) ([]*types.CurriculumLesson, error) {
	if len(lessons) == 0 {
		return []*types.CurriculumLesson{}, nil
	}
	numbers := make([]string, 0, len(lessons))
	for _, l := range lessons {
		if l == nil {
			return nil, ErrInvalidLesson
		}
		l.Normalize()
		if l.LessonNumber == "" || l.LessonTopic == "" {
			return nil, ErrInvalidLesson
		}
		numbers = append(numbers, l.LessonNumber)
	}

	transaction := dbc.DB(r.db)
	for _, l := range lessons {
		row := *l
		row.ID = 0
		err := transaction.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "numero_aula"}},
			DoUpdates: clause.AssignmentColumns([]string{"tema", "tema_aula", "objetivo", "problema_resolvido", "duracao"}),
		}).Create(&row).Error
		if err != nil {
			r.log.Warn("Curriculum upsert failed", "numero_aula", l.LessonNumber, "error", err)
			return nil, repoerr.MapError(err)
		}
	}

	var out []*types.CurriculumLesson
	if err := transaction.Where("numero_aula IN ?", numbers).Order("id ASC").Find(&out).Error; err != nil {
		return nil, repoerr.MapError(err)
	}
	return out, nil
}

func (r *lessonRepo) DeleteByNumber(dbc dbctx.Context, number string) error {
	res := dbc.DB(r.db).Where("numero_aula = ?", strings.TrimSpace(number)).Delete(&types.CurriculumLesson{})
	if res.Error != nil {
		return repoerr.MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repoerr.ErrNotFound
	}
	return nil
}
