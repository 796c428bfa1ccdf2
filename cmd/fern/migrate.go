package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newMigrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger, shutdownTracing, err := bootstrap(ctx, *envFile, "migrate")
			if err != nil {
				return err
			}
			defer shutdownTracing(context.Background())

			dependency := databaseDependency(cfg, logger, true)
			if err := dependency.Start(ctx); err != nil {
				logger.WithError(err).Error("migration failed")
				return err
			}
			defer dependency.Stop(context.Background())

			logger.Info("migrations applied")
			return nil
		},
	}
}
