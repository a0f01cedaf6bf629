package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/sweepbox/internal/api/models"
	"github.com/jon4hz/sweepbox/internal/auth"
)

// Register creates a new non-admin account.
func (h *Handler) Register(c *gin.Context) {
	var req models.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isTooLarge(err) {
			tooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing fields"})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing fields"})
		return
	}

	if _, err := h.creds.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		if !errors.Is(err, auth.ErrUsernameTaken) {
			h.logger.Error("Failed to register user", "error", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "registered"})
}

// Login verifies the credentials and issues a token.
func (h *Handler) Login(c *gin.Context) {
	var req models.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isTooLarge(err) {
			tooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing fields"})
		return
	}

	user, err := h.creds.Verify(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid credentials"})
			return
		}
		h.internalError(c, "Failed to verify credentials", err)
		return
	}

	token, err := h.codec.Issue(user)
	if err != nil {
		h.internalError(c, "Failed to issue token", err)
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}
