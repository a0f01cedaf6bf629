package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/sweepbox/internal/api/models"
	"github.com/jon4hz/sweepbox/internal/audit"
	"github.com/jon4hz/sweepbox/internal/auth"
)

// Exec runs the requested command line on the host and returns its output.
// Admin privileges are checked by the route's middleware.
func (h *Handler) Exec(c *gin.Context) {
	var req models.ExecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isTooLarge(err) {
			tooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing cmd"})
		return
	}
	if req.Cmd == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing cmd"})
		return
	}

	token := auth.GetToken(c)
	h.logger.Warn("Executing command", "actor", token.Username, "cmd", req.Cmd)

	output, err := h.executor.Run(c.Request.Context(), req.Cmd)
	if err != nil {
		h.internalError(c, "Failed to execute command", err)
		return
	}

	if err := h.audit.Append(c.Request.Context(), token.Username, audit.ActionExec, gin.H{"cmd": req.Cmd}); err != nil {
		h.internalError(c, "Failed to append audit record", err)
		return
	}

	c.JSON(http.StatusOK, models.ExecResponse{Output: output})
}
