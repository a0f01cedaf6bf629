package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jon4hz/sweepbox/internal/config"
	"github.com/jon4hz/sweepbox/internal/database"
)

// ErrInvalidToken is returned when a token cannot be parsed.
var ErrInvalidToken = errors.New("invalid token")

// Flag is a boolean that also accepts JSON numbers, non-zero meaning true.
type Flag bool

// UnmarshalJSON accepts true, false, null or any JSON number.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true":
		*f = true
		return nil
	case "false", "null":
		*f = false
		return nil
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("is_admin must be a boolean or a number, got %s", data)
	}
	*f = n != 0
	return nil
}

// Token is the identity a caller presents in the X-Auth header.
type Token struct {
	Username string `json:"username"`
	IsAdmin  Flag   `json:"is_admin"`
}

// Codec issues and parses tokens.
type Codec interface {
	Issue(user *database.User) (string, error)
	Parse(raw string) (*Token, error)
}

// NewCodec returns the codec selected by the auth config.
func NewCodec(cfg *config.AuthConfig) (Codec, error) {
	switch cfg.TokenMode {
	case config.TokenModeUnsigned, "":
		return UnsignedCodec{}, nil
	case config.TokenModeSigned:
		return NewSignedCodec([]byte(cfg.TokenSecret), cfg.TokenTTL)
	default:
		return nil, fmt.Errorf("unknown token mode %q", cfg.TokenMode)
	}
}

// UnsignedCodec encodes the token as plain JSON.
// Parsed tokens are trusted as-is and never checked against the store.
type UnsignedCodec struct{}

// Issue encodes the user's name and admin flag as a JSON object.
func (UnsignedCodec) Issue(user *database.User) (string, error) {
	b, err := json.Marshal(Token{Username: user.Username, IsAdmin: Flag(user.IsAdmin)})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Parse decodes a JSON object token. Anything else is ErrInvalidToken.
func (UnsignedCodec) Parse(raw string) (*Token, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 || data[0] != '{' {
		return nil, ErrInvalidToken
	}
	var t Token
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return &t, nil
}

type claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// SignedCodec encodes the token as an HS256 JWT.
type SignedCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedCodec creates a signed codec. A zero ttl issues tokens without expiry.
func NewSignedCodec(secret []byte, ttl time.Duration) (*SignedCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	return &SignedCodec{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for user, expiring after the configured ttl if one is set.
func (s *SignedCodec) Issue(user *database.User) (string, error) {
	now := s.now()
	rc := jwt.RegisteredClaims{
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.ttl > 0 {
		rc.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: rc,
		Username:         user.Username,
		IsAdmin:          user.IsAdmin,
	})
	return token.SignedString(s.secret)
}

// Parse verifies the signature and expiry of raw and returns its identity.
func (s *SignedCodec) Parse(raw string) (*Token, error) {
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return &Token{Username: c.Username, IsAdmin: Flag(c.IsAdmin)}, nil
}
