package aicalllog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/yungbote/lessonplan-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lessonplan-backend/internal/domain"
	"github.com/yungbote/lessonplan-backend/internal/pkg/dbctx"
)

func TestAICallLogRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewAICallLogRepo(db, testutil.Logger(t))
	dbc := dbctx.New(context.Background())

	now := time.Now().UTC()
	rows := []*types.AICallLog{
		{RequestID: "req-1", CallType: "generate", Model: "gemini-1.5-pro", Attempt: 1, Success: false, Error: "503 Service Unavailable", CreatedAt: now.Add(-2 * time.Second)},
		{RequestID: "req-1", CallType: "generate", Model: "gemini-1.5-flash", Attempt: 2, Success: true, Response: "{}", Metadata: datatypes.JSON([]byte(`{"kind":"plan"}`)), CreatedAt: now.Add(-time.Second)},
		{RequestID: "req-2", CallType: "chat", Model: "gemini-1.5-pro", Attempt: 1, Success: true, CreatedAt: now},
	}
	created, err := repo.Create(dbc, rows)
	require.NoError(t, err)
	require.Len(t, created, 3)
	for _, row := range created {
		assert.NotEqual(t, uuid.Nil, row.ID)
	}

	recent, err := repo.ListRecent(dbc, "", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "chat", recent[0].CallType)

	gen, err := repo.ListRecent(dbc, "generate", 0)
	require.NoError(t, err)
	assert.Len(t, gen, 2)

	byReq, err := repo.ListByRequestID(dbc, "req-1")
	require.NoError(t, err)
	require.Len(t, byReq, 2)
	assert.Equal(t, 1, byReq[0].Attempt)
	assert.Equal(t, "gemini-1.5-flash", byReq[1].Model)

	empty, err := repo.Create(dbc, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
