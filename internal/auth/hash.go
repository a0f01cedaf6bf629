package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/jon4hz/sweepbox/internal/config"
	"github.com/zeebo/blake3"
)

// HashPassword returns the lowercase hex digest of the UTF-8 password.
// No salt is applied, equal passwords always produce equal digests.
func HashPassword(digest config.PasswordDigest, password string) string {
	switch digest {
	case config.PasswordDigestBLAKE3:
		sum := blake3.Sum256([]byte(password))
		return hex.EncodeToString(sum[:])
	default:
		sum := sha256.Sum256([]byte(password))
		return hex.EncodeToString(sum[:])
	}
}
