package aicalllog

import (
	"gorm.io/gorm"

	"github.com/yungbote/lessonplan-backend/internal/data/repos/repoerr"
	types "github.com/yungbote/lessonplan-backend/internal/domain"
	"github.com/yungbote/lessonplan-backend/internal/pkg/dbctx"
	"github.com/yungbote/lessonplan-backend/internal/platform/logger"
)

type AICallLogRepo interface {
	Create(dbc dbctx.Context, logs []*types.AICallLog) ([]*types.AICallLog, error)
	ListRecent(dbc dbctx.Context, callType string, limit int) ([]*types.AICallLog, error)
	ListByRequestID(dbc dbctx.Context, requestID string) ([]*types.AICallLog, error)
}

type aiCallLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAICallLogRepo(db *gorm.DB, baseLog *logger.Logger) AICallLogRepo {
	return &aiCallLogRepo{db: db, log: baseLog.With("repo", "AICallLogRepo")}
}

func (r *aiCallLogRepo) Create(dbc dbctx.Context, logs []*types.AICallLog) ([]*types.AICallLog, error) {
	if len(logs) == 0 {
		return []*types.AICallLog{}, nil
	}
	if err := dbc.DB(r.db).Create(&logs).Error; err != nil {
		return nil, repoerr.MapError(err)
	}
	return logs, nil
}

// ListRecent returns the newest rows first. An empty callType matches every row.
func (r *aiCallLogRepo) ListRecent(dbc dbctx.Context, callType string, limit int) ([]*types.AICallLog, error) {
	if limit <= 0 {
		limit = 50
	}
	q := dbc.DB(r.db).Order("created_at DESC").Limit(limit)
	if callType != "" {
		q = q.Where("call_type = ?", callType)
	}
	var out []*types.AICallLog
	if err := q.Find(&out).Error; err != nil {
		return nil, repoerr.MapError(err)
	}
	return out, nil
}

func (r *aiCallLogRepo) ListByRequestID(dbc dbctx.Context, requestID string) ([]*types.AICallLog, error) {
	var out []*types.AICallLog
	if requestID == "" {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("request_id = ?", requestID).Order("attempt ASC").Find(&out).Error; err != nil {
		return nil, repoerr.MapError(err)
	}
	return out, nil
}
