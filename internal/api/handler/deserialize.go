package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/sweepbox/internal/api/models"
)

// Deserialize decodes the raw request body and reports the type and string form of the result.
func (h *Handler) Deserialize(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		if isTooLarge(err) {
			tooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.decoder.Decode(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.DeserializeResponse{Type: res.Type, Value: res.Value})
}
