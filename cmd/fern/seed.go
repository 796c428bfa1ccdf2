package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/Ramsey-B/fern/internal/repositories/seeddata"
	seedsvc "github.com/Ramsey-B/fern/internal/services/seed"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/seed"
	"github.com/spf13/cobra"
)

type seedOptions struct {
	profile string
	count   int
	seed    int64
	clear   bool
}

func newSeedCmd(envFile *string) *cobra.Command {
	opts := seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate seeded friends, pets and quotes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *envFile, opts)
		},
	}
	cmd.Flags().StringVar(&opts.profile, "profile", "", "YAML seed profile (defaults to the built-in profile)")
	cmd.Flags().IntVar(&opts.count, "count", 100, "number of friends to generate")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed; 0 uses the current time")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "remove existing seeded rows first")
	return cmd
}

func runSeed(ctx context.Context, envFile string, opts seedOptions) error {
	cfg, logger, shutdownTracing, err := bootstrap(ctx, envFile, "seed")
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	profile, err := seed.DefaultProfile()
	if opts.profile != "" {
		profile, err = seed.LoadProfile(opts.profile)
	}
	if err != nil {
		return err
	}

	infra, err := startInfrastructure(ctx, cfg, logger, cfg.DatabaseMigrateOnStartup)
	if err != nil {
		logger.WithError(err).Error("failed to start dependencies")
		return err
	}
	defer infra.startup.Stop(context.Background())

	service := seedsvc.NewService(logger, seeddata.NewRepository(infra.database.DB(), logger), profile, infra.overview, infra.emitter)

	if opts.clear {
		if _, err := service.Clear(ctx, true); err != nil {
			return err
		}
	}

	result, err := service.Seed(ctx, models.SeedRequest{Count: opts.count, Seed: opts.seed})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
