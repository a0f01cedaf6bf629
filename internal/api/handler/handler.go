package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/sweepbox/internal/audit"
	"github.com/jon4hz/sweepbox/internal/auth"
	"github.com/jon4hz/sweepbox/internal/decode"
	"github.com/jon4hz/sweepbox/internal/executor"
	"github.com/jon4hz/sweepbox/internal/upload"
)

// Options holds the collaborators of the request handlers.
type Options struct {
	Credentials *auth.Credentials
	Codec       auth.Codec
	Audit       *audit.Log
	Store       *upload.Store
	Executor    *executor.Executor
	Decoder     *decode.Decoder
	Logger      *log.Logger
}

type Handler struct {
	creds     *auth.Credentials
	codec     auth.Codec
	audit     *audit.Log
	store     *upload.Store
	executor  *executor.Executor
	decoder   *decode.Decoder
	logger    *log.Logger
	startedAt time.Time
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default().WithPrefix("api")
	}
	return &Handler{
		creds:     opts.Credentials,
		codec:     opts.Codec,
		audit:     opts.Audit,
		store:     opts.Store,
		executor:  opts.Executor,
		decoder:   opts.Decoder,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// isTooLarge reports whether err was caused by the request body ceiling.
func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func tooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
}

// internalError logs err and responds with its raw message.
func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, "error", err, "path", c.Request.URL.Path)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
