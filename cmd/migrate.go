package main

import (
	"errors"

	"invoicedash/internal/config"
	"invoicedash/pkg/database"

	"github.com/spf13/cobra"
)

func NewMigrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL environment variable is required")
			}

			pool, err := database.NewPool(cmd.Context(), cfg.DatabaseURL, cfg.DBMaxConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			config.GetLogger().WithField("module", "cmd").Info("schema is up to date")
			return nil
		},
	}
}
