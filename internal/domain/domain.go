package domain

import (
	"github.com/yungbote/lessonplan-backend/internal/domain/aicall"
	"github.com/yungbote/lessonplan-backend/internal/domain/curriculum"
)

type (
	CurriculumLesson = curriculum.Lesson
	AICallLog        = aicall.Log
)

// Models lists every persisted model, in migration order.
func Models() []any {
	return []any{
		&curriculum.Lesson{},
		&aicall.Log{},
	}
}
