package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jon4hz/sweepbox/internal/database"
)

const (
	ActionUpload = "upload"
	ActionExec   = "exec"
)

// Log appends audit records to the store.
type Log struct {
	db  database.AuditDB
	now func() time.Time
}

// New creates a new audit log.
func New(db database.AuditDB) *Log {
	return &Log{db: db, now: time.Now}
}

// Append synchronously records an action. Store errors are returned to the caller.
func (l *Log) Append(ctx context.Context, actor, action string, metadata any) error {
	b, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode audit metadata: %w", err)
	}

	return l.db.CreateAuditRecord(ctx, &database.AuditRecord{
		Actor:     actor,
		Action:    action,
		Metadata:  string(b),
		CreatedAt: l.now().UTC(),
	})
}
