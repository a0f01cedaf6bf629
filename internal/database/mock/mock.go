package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jon4hz/sweepbox/internal/database"
	"gorm.io/gorm"
)

var _ database.DB = (*MockDB)(nil)

// MockDB is a mock implementation of database.DB for testing.
type MockDB struct {
	mu sync.RWMutex

	// User storage
	users      map[uint]*database.User
	nextUserID uint

	// Audit storage
	auditRecords []database.AuditRecord
	nextAuditID  uint

	// Error simulation
	CreateUserError                error
	GetUserByUsernameError         error
	SetUserAdminError              error
	CountUsersError                error
	CreateAuditRecordError         error
	CountAuditRecordsByActionError error
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	return &MockDB{
		users:       make(map[uint]*database.User),
		nextUserID:  1,
		nextAuditID: 1,
	}
}

// Reset clears all data and errors from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[uint]*database.User)
	m.nextUserID = 1
	m.auditRecords = nil
	m.nextAuditID = 1

	m.CreateUserError = nil
	m.GetUserByUsernameError = nil
	m.SetUserAdminError = nil
	m.CountUsersError = nil
	m.CreateAuditRecordError = nil
	m.CountAuditRecordsByActionError = nil
}

func (m *MockDB) CreateUser(ctx context.Context, username, passwordHash string) (*database.User, error) {
	if m.CreateUserError != nil {
		return nil, m.CreateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return nil, fmt.Errorf("%w: UNIQUE constraint failed: users.username", database.ErrDuplicate)
		}
	}

	user := &database.User{
		ID:           m.nextUserID,
		Username:     username,
		PasswordHash: passwordHash,
	}
	m.nextUserID++
	m.users[user.ID] = user

	cp := *user
	return &cp, nil
}

func (m *MockDB) GetUserByUsername(ctx context.Context, username string) (*database.User, error) {
	if m.GetUserByUsernameError != nil {
		return nil, m.GetUserByUsernameError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

// GetUserByUsernameLegacy behaves like GetUserByUsername; the mock has no SQL to inject into.
func (m *MockDB) GetUserByUsernameLegacy(ctx context.Context, username string) (*database.User, error) {
	return m.GetUserByUsername(ctx, username)
}

func (m *MockDB) SetUserAdmin(ctx context.Context, username string, isAdmin bool) error {
	if m.SetUserAdminError != nil {
		return m.SetUserAdminError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Username == username {
			user.IsAdmin = isAdmin
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *MockDB) CountUsers(ctx context.Context) (int64, int64, error) {
	if m.CountUsersError != nil {
		return 0, 0, m.CountUsersError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var admins int64
	for _, user := range m.users {
		if user.IsAdmin {
			admins++
		}
	}
	return int64(len(m.users)), admins, nil
}

func (m *MockDB) CreateAuditRecord(ctx context.Context, record *database.AuditRecord) error {
	if m.CreateAuditRecordError != nil {
		return m.CreateAuditRecordError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record.ID = m.nextAuditID
	m.nextAuditID++
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	m.auditRecords = append(m.auditRecords, *record)
	return nil
}

func (m *MockDB) CountAuditRecordsByAction(ctx context.Context) (map[string]int64, error) {
	if m.CountAuditRecordsByActionError != nil {
		return nil, m.CountAuditRecordsByActionError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int64)
	for _, r := range m.auditRecords {
		counts[r.Action]++
	}
	return counts, nil
}

// Helper methods for testing

// AuditRecords returns a copy of all stored audit records in insertion order.
func (m *MockDB) AuditRecords() []database.AuditRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]database.AuditRecord, len(m.auditRecords))
	copy(out, m.auditRecords)
	return out
}

// UserCount returns the number of users.
func (m *MockDB) UserCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
