package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/sweepbox/internal/api/models"
	"github.com/shirou/gopsutil/v3/disk"
)

// Health returns uptime and the disk usage of the upload directory.
func (h *Handler) Health(c *gin.Context) {
	resp := models.HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.startedAt).Truncate(time.Second).String(),
	}

	usage, err := disk.UsageWithContext(c.Request.Context(), h.store.Root())
	if err != nil {
		h.logger.Debug("Failed to get disk usage", "path", h.store.Root(), "error", err)
	} else {
		resp.Uploads = &models.UploadsDisk{
			Path:        h.store.Root(),
			Total:       usage.Total,
			Free:        usage.Free,
			UsedPercent: usage.UsedPercent,
		}
	}

	c.JSON(http.StatusOK, resp)
}
