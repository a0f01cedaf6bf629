package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/sweepbox/internal/api/models"
	"github.com/jon4hz/sweepbox/internal/audit"
	"github.com/jon4hz/sweepbox/internal/auth"
	"github.com/jon4hz/sweepbox/internal/upload"
)

// Upload stores the multipart field "file" under its client-supplied name.
func (h *Handler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			tooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file"})
		return
	}

	src, err := header.Open()
	if err != nil {
		h.internalError(c, "Failed to open uploaded file", err)
		return
	}
	defer src.Close() //nolint:errcheck

	path, err := h.store.Save(header.Filename, src)
	if err != nil {
		if errors.Is(err, upload.ErrEmptyName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no file"})
			return
		}
		h.internalError(c, "Failed to save file", err)
		return
	}

	token := auth.GetToken(c)
	if err := h.audit.Append(c.Request.Context(), token.Username, audit.ActionUpload, gin.H{"file": header.Filename}); err != nil {
		h.internalError(c, "Failed to append audit record", err)
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{Status: "uploaded", Path: path})
}

// Download serves a stored file by name.
func (h *Handler) Download(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filename"), "/")

	f, info, err := h.store.Open(name)
	if err != nil {
		if errors.Is(err, upload.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.internalError(c, "Failed to open file", err)
		return
	}
	defer f.Close() //nolint:errcheck

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}
