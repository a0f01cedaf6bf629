package audit

import (
	"context"
	"testing"
	"time"

	"github.com/jon4hz/sweepbox/internal/database/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	db := mock.NewMockDB()
	l := New(db)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	l.now = func() time.Time { return fixed }

	require.NoError(t, l.Append(context.Background(), "alice", ActionUpload, map[string]string{"file": "a.txt"}))
	require.NoError(t, l.Append(context.Background(), "root", ActionExec, map[string]string{"cmd": "id"}))

	records := db.AuditRecords()
	require.Len(t, records, 2)

	assert.Equal(t, "alice", records[0].Actor)
	assert.Equal(t, ActionUpload, records[0].Action)
	assert.JSONEq(t, `{"file":"a.txt"}`, records[0].Metadata)
	assert.Equal(t, time.UTC, records[0].CreatedAt.Location())
	assert.True(t, fixed.Equal(records[0].CreatedAt))

	assert.Equal(t, ActionExec, records[1].Action)
	assert.Less(t, records[0].ID, records[1].ID)
}

func TestAppend_StoreError(t *testing.T) {
	db := mock.NewMockDB()
	db.CreateAuditRecordError = assert.AnError

	err := New(db).Append(context.Background(), "alice", ActionUpload, nil)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAppend_UnencodableMetadata(t *testing.T) {
	err := New(mock.NewMockDB()).Append(context.Background(), "alice", ActionUpload, map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}
