package database

import "context"

// DB defines the store operations used by the service.
type DB interface {
	UserDB
	AuditDB
}

// UserDB defines the operations on the users table.
type UserDB interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByUsernameLegacy(ctx context.Context, username string) (*User, error)
	SetUserAdmin(ctx context.Context, username string, isAdmin bool) error
	CountUsers(ctx context.Context) (total int64, admins int64, err error)
}

// AuditDB defines the operations on the audit_log table.
type AuditDB interface {
	CreateAuditRecord(ctx context.Context, record *AuditRecord) error
	CountAuditRecordsByAction(ctx context.Context) (map[string]int64, error)
}
