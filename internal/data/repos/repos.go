package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/lessonplan-backend/internal/data/repos/aicalllog"
	"github.com/yungbote/lessonplan-backend/internal/data/repos/curriculum"
	"github.com/yungbote/lessonplan-backend/internal/data/repos/repoerr"
	"github.com/yungbote/lessonplan-backend/internal/platform/logger"
)

type CurriculumLessonRepo = curriculum.LessonRepo
type AICallLogRepo = aicalllog.AICallLogRepo

var (
	ErrNotFound  = repoerr.ErrNotFound
	ErrDuplicate = repoerr.ErrDuplicate
)

type Repos struct {
	Curriculum CurriculumLessonRepo
	AICallLog  AICallLogRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Curriculum: curriculum.NewLessonRepo(db, log),
		AICallLog:  aicalllog.NewAICallLogRepo(db, log),
	}
}
