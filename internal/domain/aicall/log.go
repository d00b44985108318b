package aicall

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Log records one upstream model call made while generating or refining a plan.
type Log struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID  string         `gorm:"column:request_id;index" json:"request_id,omitempty"`
	CallType   string         `gorm:"column:call_type;not null;index" json:"call_type"`
	Model      string         `gorm:"column:model;not null" json:"model"`
	Attempt    int            `gorm:"column:attempt;not null" json:"attempt"`
	Prompt     string         `gorm:"column:prompt;type:text" json:"prompt"`
	Response   string         `gorm:"column:response;type:text" json:"response"`
	Success    bool           `gorm:"column:success;not null" json:"success"`
	Error      string         `gorm:"column:error;type:text" json:"error,omitempty"`
	DurationMS int64          `gorm:"column:duration_ms;not null" json:"duration_ms"`
	Metadata   datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"created_at"`
}

func (Log) TableName() string { return "ai_call_log" }

func (l *Log) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
