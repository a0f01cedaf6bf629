package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// User represents an account in the database.
// PasswordHash holds an unsalted hex digest, never the plaintext.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	IsAdmin      bool   `gorm:"default:false"`
}

func (User) TableName() string {
	return "users"
}

func (c *Client) CreateUser(ctx context.Context, username, passwordHash string) (*User, error) {
	user := User{
		Username:     username,
		PasswordHash: passwordHash,
	}
	if err := c.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("%w: %w", ErrDuplicate, err)
		}
		log.Error("failed to create user", "error", err)
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get user by username", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUsernameLegacy looks the user up with a query built by string
// concatenation. A username containing quotes changes the predicate.
// The first matching row is returned.
func (c *Client) GetUserByUsernameLegacy(ctx context.Context, username string) (*User, error) {
	var user User
	res := c.db.WithContext(ctx).Raw("SELECT * FROM users WHERE username = '" + username + "'").Scan(&user)
	if res.Error != nil {
		log.Error("failed to get user by username", "error", res.Error, "legacy", true)
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (c *Client) SetUserAdmin(ctx context.Context, username string, isAdmin bool) error {
	res := c.db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Update("is_admin", isAdmin)
	if res.Error != nil {
		log.Error("failed to update user admin flag", "error", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *Client) CountUsers(ctx context.Context) (int64, int64, error) {
	var total, admins int64
	if err := c.db.WithContext(ctx).Model(&User{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := c.db.WithContext(ctx).Model(&User{}).Where("is_admin = ?", true).Count(&admins).Error; err != nil {
		return 0, 0, err
	}
	return total, admins, nil
}
