package cmd

import (
	"errors"
	"fmt"

	"github.com/jon4hz/sweepbox/internal/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var promoteCmdFlags struct {
	Revoke bool
}

var promoteCmd = &cobra.Command{
	Use:   "promote <username>",
	Short: "Grant or revoke admin privileges",
	Long:  `Set the admin flag of a registered user. Tokens issued afterwards carry the new flag.`,
	Example: `sweepbox promote alice
sweepbox promote alice --revoke`,
	Args: cobra.ExactArgs(1),
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

		username := args[0]
		if err := db.SetUserAdmin(cmd.Context(), username, !promoteCmdFlags.Revoke); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %q not found", username)
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		if promoteCmdFlags.Revoke {
			fmt.Printf("Revoked admin privileges from %s\n", username)
		} else {
			fmt.Printf("Granted admin privileges to %s\n", username)
		}
		return nil
	},
}

func init() {
	promoteCmd.Flags().BoolVar(&promoteCmdFlags.Revoke, "revoke", false, "Revoke admin privileges instead of granting them")
	rootCmd.AddCommand(promoteCmd)
}
