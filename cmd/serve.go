package cmd

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/sweepbox/internal/api"
	"github.com/jon4hz/sweepbox/internal/database"
	"github.com/jon4hz/sweepbox/internal/engine"
	"github.com/jon4hz/sweepbox/internal/upload"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sweepbox server",
	Long:  `Start the sweepbox HTTP server together with the background retention sweep.`,
	Example: `sweepbox serve --config config.yml
sweepbox serve -c /path/to/config.yml --log-level debug
`,
	Run: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close() //nolint:errcheck

	store, err := upload.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to initialize upload store: %v", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	engine, err := engine.New(cfg, store, nil)
	if err != nil {
		log.Fatalf("failed to create engine: %v", err)
	}

	server, err := api.New(cfg, db, store, log.GetLevel() == log.DebugLevel)
	if err != nil {
		log.Fatalf("failed to create API server: %v", err)
	}

	// Start the engine in a goroutine
	go func() {
		if err := engine.Run(ctx); err != nil {
			log.Error("engine error", "error", err)
		}
	}()

	// Start the API server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting API server", "listen", cfg.Listen)
		serverErr <- server.Run()
	}()

	log.Info("sweepbox started successfully")
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			log.Error("API server error", "error", err)
		}
	}
	log.Info("shutting down gracefully...")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down API server", "error", err)
	}
	if err := engine.Close(); err != nil {
		log.Error("failed to stop engine", "error", err)
	}
}
