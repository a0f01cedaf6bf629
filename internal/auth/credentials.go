package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/sweepbox/internal/config"
	"github.com/jon4hz/sweepbox/internal/database"
	"gorm.io/gorm"
)

var (
	// ErrUsernameTaken is returned when registering a username that already exists.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials is returned when the user is unknown or the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Credentials registers and verifies users against the store.
type Credentials struct {
	db           database.UserDB
	digest       config.PasswordDigest
	legacyLookup bool
}

// NewCredentials creates a new credential store.
func NewCredentials(db database.UserDB, cfg *config.AuthConfig) *Credentials {
	return &Credentials{
		db:           db,
		digest:       cfg.PasswordDigest,
		legacyLookup: cfg.LegacyLookup,
	}
}

// Register stores a new non-admin user with the digest of its password.
func (c *Credentials) Register(ctx context.Context, username, password string) (*database.User, error) {
	user, err := c.db.CreateUser(ctx, username, HashPassword(c.digest, password))
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %w", ErrUsernameTaken, err)
		}
		return nil, err
	}
	log.Info("Registered user", "username", username)
	return user, nil
}

// Verify returns the stored user if the password matches.
func (c *Credentials) Verify(ctx context.Context, username, password string) (*database.User, error) {
	lookup := c.db.GetUserByUsername
	if c.legacyLookup {
		lookup = c.db.GetUserByUsernameLegacy
	}

	user, err := lookup(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	want := HashPassword(c.digest, password)
	if subtle.ConstantTimeCompare([]byte(user.PasswordHash), []byte(want)) != 1 {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
