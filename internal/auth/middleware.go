package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderName is the request header carrying the token.
const HeaderName = "X-Auth"

const tokenKey = "token"

// Provider guards routes with the configured token codec.
type Provider struct {
	codec Codec
}

// NewProvider creates a new auth provider.
func NewProvider(codec Codec) *Provider {
	return &Provider{codec: codec}
}

// RequireAuth returns a middleware that rejects requests without a parseable token.
func (p *Provider) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderName)
		if raw == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth"})
			c.Abort()
			return
		}

		token, err := p.codec.Parse(raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(tokenKey, token)
		c.Next()
	}
}

// RequireAdmin returns a middleware that only lets tokens claiming admin through.
// It must run after RequireAuth.
func (p *Provider) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := GetToken(c)
		if token == nil || !bool(token.IsAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetToken returns the token stored by RequireAuth, or nil.
func GetToken(c *gin.Context) *Token {
	v, ok := c.Get(tokenKey)
	if !ok {
		return nil
	}
	token, _ := v.(*Token)
	return token
}
