package main

import (
	"context"

	"github.com/Ramsey-B/fern/internal/web"
	"github.com/Ramsey-B/fern/pkg/fernclient"
	"github.com/Ramsey-B/fern/pkg/health"
	"github.com/Ramsey-B/fern/pkg/httpclient"
	"github.com/spf13/cobra"
)

func newWebCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "web",
		Short: "Run the fern web client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeb(cmd.Context(), *envFile)
		},
	}
}

func runWeb(ctx context.Context, envFile string) error {
	cfg, logger, shutdownTracing, err := bootstrap(ctx, envFile, "web")
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	httpConfig := httpclient.DefaultConfig()
	httpConfig.Timeout = cfg.APITimeout

	client, err := fernclient.NewClient(cfg.APIBaseURL, cfg.APIToken, httpclient.NewClient(httpConfig, logger), logger)
	if err != nil {
		return err
	}

	fetcher := fernclient.NewFetcher(client, cfg.FilteredPageSize, cfg.BroadScanPageSize, logger)
	loader := fernclient.NewLoader(client, fetcher, cfg.FriendScanPageSize, cfg.FriendScanMaxPages, logger)

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	e := newEcho(cfg, logger, "web")
	e.Renderer = renderer

	checker := health.NewChecker(cfg.Version)
	checker.Register(e.Group("/health"))

	web.NewHandler(client, loader, web.Config{
		DefaultSeeded: cfg.DefaultSeeded,
		PageSize:      cfg.FriendsPageSize,
	}, logger).RegisterRoutes(e)

	checker.SetReady(true)
	return serve(ctx, e, cfg, cfg.WebPort, logger)
}
