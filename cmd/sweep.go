package cmd

import (
	"fmt"
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/dustin/go-humanize"
	"github.com/jon4hz/sweepbox/internal/engine"
	"github.com/jon4hz/sweepbox/internal/upload"
	"github.com/spf13/cobra"
)

var sweepCmdFlags struct {
	MaxAge time.Duration
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a single retention sweep",
	Long:  `Remove every uploaded file older than the max age once and exit.`,
	Example: `sweepbox sweep
sweepbox sweep --max-age 24h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		store, err := upload.New(cfg.UploadDir)
		if err != nil {
			return err
		}

		e, err := engine.New(cfg, store, nil)
		if err != nil {
			return fmt.Errorf("failed to create engine: %w", err)
		}
		defer e.Close() //nolint: errcheck

		maxAge := cfg.Retention.MaxAge
		if sweepCmdFlags.MaxAge > 0 {
			maxAge = sweepCmdFlags.MaxAge
		}

		if maxAge <= 0 {
			return fmt.Errorf("max age must be greater than 0")
		}

		res, err := e.SweepOlderThan(cmd.Context(), maxAge)
		freed, _ := safecast.Convert[uint64](res.Freed)
		fmt.Printf("Scanned %d files, removed %d (%s)\n", res.Scanned, len(res.Removed), humanize.Bytes(freed))
		return err
	},
}

func init() {
	sweepCmd.Flags().DurationVar(&sweepCmdFlags.MaxAge, "max-age", 0, "Override the configured max age")
	rootCmd.AddCommand(sweepCmd)
}
