package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/benx421/bank-sync/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		database, err := db.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck // exiting

		if err := database.Migrate(ctx); err != nil {
			return err
		}
		cmd.Println("Migrations applied.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
