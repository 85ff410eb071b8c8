package main

import (
	"invoicedash/internal/config"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the invoicedash CLI
func NewRootCommand() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:           "invoicedash",
		Short:         "Acme invoice dashboard server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			*cfg = *config.Load()
			config.SetLogLevel(cfg.LogLevel)
			return nil
		},
	}

	cmd.AddCommand(NewServeCommand(cfg))
	cmd.AddCommand(NewMigrateCommand(cfg))
	cmd.AddCommand(NewSeedCommand(cfg))

	return cmd
}
