package curriculum

import "strings"

// Lesson is one entry of the school's existing curriculum.
type Lesson struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id" yaml:"-"`
	Theme         string `gorm:"column:tema;type:text" json:"tema,omitempty" yaml:"tema,omitempty"`
	LessonNumber  string `gorm:"column:numero_aula;type:text;not null;uniqueIndex:idx_aulas_curriculo_numero" json:"numero_aula" yaml:"numero_aula"`
	LessonTopic   string `gorm:"column:tema_aula;type:text;not null" json:"tema_aula" yaml:"tema_aula"`
	Objective     string `gorm:"column:objetivo;type:text" json:"objetivo,omitempty" yaml:"objetivo,omitempty"`
	ProblemSolved string `gorm:"column:problema_resolvido;type:text" json:"problema_resolvido,omitempty" yaml:"problema_resolvido,omitempty"`
	Duration      string `gorm:"column:duracao;type:text" json:"duracao,omitempty" yaml:"duracao,omitempty"`
}

func (Lesson) TableName() string { return "aulas_curriculo" }

// Normalize trims every text column.
func (l *Lesson) Normalize() {
	l.Theme = strings.TrimSpace(l.Theme)
	l.LessonNumber = strings.TrimSpace(l.LessonNumber)
	l.LessonTopic = strings.TrimSpace(l.LessonTopic)
	l.Objective = strings.TrimSpace(l.Objective)
	l.ProblemSolved = strings.TrimSpace(l.ProblemSolved)
	l.Duration = strings.TrimSpace(l.Duration)
}
