package cmd

import (
	"fmt"
	"slices"

	"github.com/jon4hz/sweepbox/internal/database"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show database statistics",
	Long:  `Display statistics about registered users and audit records.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		total, admins, err := db.CountUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}

		counts, err := db.CountAuditRecordsByAction(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to count audit records: %w", err)
		}

		fmt.Println("Database Statistics:")
		fmt.Printf("Users: %d\n", total)
		fmt.Printf("Admins: %d\n", admins)
		fmt.Printf("Audit Records: %d\n", lo.Sum(lo.Values(counts)))

		actions := lo.Keys(counts)
		slices.Sort(actions)
		for _, action := range actions {
			fmt.Printf("  %s: %d\n", action, counts[action])
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}
