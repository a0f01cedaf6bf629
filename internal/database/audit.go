package database

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// AuditRecord is an append-only entry describing a security-relevant action.
// Actor is taken from the caller's token and is not verified.
type AuditRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Actor     string    `gorm:"index"`
	Action    string    `gorm:"index"`
	Metadata  string    // JSON encoded
	CreatedAt time.Time // UTC
}

func (AuditRecord) TableName() string {
	return "audit_log"
}

func (c *Client) CreateAuditRecord(ctx context.Context, record *AuditRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if err := c.db.WithContext(ctx).Create(record).Error; err != nil {
		log.Error("failed to create audit record", "error", err, "action", record.Action)
		return err
	}
	return nil
}

func (c *Client) CountAuditRecordsByAction(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Action string
		Count  int64
	}
	if err := c.db.WithContext(ctx).
		Model(&AuditRecord{}).
		Select("action, COUNT(*) AS count").
		Group("action").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Action] = r.Count
	}
	return counts, nil
}
