package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/sweepbox/internal/api/handler"
	"github.com/jon4hz/sweepbox/internal/audit"
	"github.com/jon4hz/sweepbox/internal/auth"
	"github.com/jon4hz/sweepbox/internal/config"
	"github.com/jon4hz/sweepbox/internal/database"
	"github.com/jon4hz/sweepbox/internal/decode"
	"github.com/jon4hz/sweepbox/internal/executor"
	"github.com/jon4hz/sweepbox/internal/upload"
)

type Server struct {
	cfg          *config.Config
	ginEngine    *gin.Engine
	authProvider *auth.Provider
	handler      *handler.Handler
	server       *http.Server
	logger       *log.Logger
}

func New(cfg *config.Config, db database.DB, store *upload.Store, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	codec, err := auth.NewCodec(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}

	decoder, err := decode.New(cfg.Deserialize.Mode, cfg.Deserialize.MaxDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := log.Default().WithPrefix("api")

	s := &Server{
		cfg:          cfg,
		ginEngine:    gin.New(),
		authProvider: auth.NewProvider(codec),
		logger:       logger,
		handler: handler.New(handler.Options{
			Credentials: auth.NewCredentials(db, cfg.Auth),
			Codec:       codec,
			Audit:       audit.New(db),
			Store:       store,
			Executor:    executor.New(cfg.Exec.Shell, nil),
			Decoder:     decoder,
			Logger:      logger,
		}),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.ginEngine.Use(requestLogger(s.logger), recovery(s.logger))
	if s.cfg.Gzip {
		s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	s.ginEngine.Use(bodyLimit(s.cfg.MaxUploadBytes))
}

func (s *Server) setupRoutes() {
	h := s.handler

	s.ginEngine.GET("/health", h.Health)
	s.ginEngine.POST("/register", h.Register)
	s.ginEngine.POST("/login", h.Login)

	protected := s.ginEngine.Group("/")
	protected.Use(s.authProvider.RequireAuth())

	protected.POST("/upload", h.Upload)
	protected.GET("/files/*filename", h.Download)
	protected.POST("/deserialize", h.Deserialize)

	if s.cfg.Exec.Enabled {
		adminGroup := protected.Group("/admin")
		adminGroup.Use(s.authProvider.RequireAdmin())
		adminGroup.POST("/exec", h.Exec)
	}
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run listens on the configured address until Shutdown is called.
func (s *Server) Run() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
