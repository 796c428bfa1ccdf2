package main

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/internal/handlers"
	friendrepo "github.com/Ramsey-B/fern/internal/repositories/friend"
	overviewrepo "github.com/Ramsey-B/fern/internal/repositories/overview"
	petrepo "github.com/Ramsey-B/fern/internal/repositories/pet"
	quoterepo "github.com/Ramsey-B/fern/internal/repositories/quote"
	"github.com/Ramsey-B/fern/internal/repositories/seeddata"
	friendsvc "github.com/Ramsey-B/fern/internal/services/friend"
	overviewsvc "github.com/Ramsey-B/fern/internal/services/overview"
	petsvc "github.com/Ramsey-B/fern/internal/services/pet"
	quotesvc "github.com/Ramsey-B/fern/internal/services/quote"
	seedsvc "github.com/Ramsey-B/fern/internal/services/seed"
	"github.com/Ramsey-B/fern/pkg/cache"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/health"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/seed"
	"github.com/Ramsey-B/fern/pkg/startup"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

func newAPICmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Run the fern REST api",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPI(cmd.Context(), *envFile)
		},
	}
}

func databaseDependency(cfg *config.Config, logger ectologger.Logger, migrate bool) *database.Dependency {
	return database.NewDependency(database.ConnectionConfig{
		Driver:          cfg.DatabaseDriver,
		DSN:             cfg.DatabaseDSN(),
		Name:            cfg.DatabaseName,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
		Migrate:         migrate,
		Migration: database.MigrationConfig{
			MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
			Version:             uint(cfg.DatabaseMigrationVersion),
			Force:               cfg.DatabaseMigrationForce,
			AutoRollback:        cfg.DatabaseMigrationAutoRollback,
		},
	}, logger)
}

// infrastructure is the started backing services of fern-api.
type infrastructure struct {
	startup  *startup.Startup
	database *database.Dependency
	redis    *cache.Client
	overview cache.OverviewCache
	emitter  *events.Emitter
}

// startInfrastructure connects postgres and, when enabled, redis and kafka.
func startInfrastructure(ctx context.Context, cfg *config.Config, logger ectologger.Logger, migrate bool) (*infrastructure, error) {
	infra := &infrastructure{
		startup:  startup.NewStartup(logger, cfg.StartupMaxAttempts),
		database: databaseDependency(cfg, logger, migrate),
		overview: cache.NoopOverviewCache{},
	}
	infra.startup.AddDependency(infra.database)

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.KafkaEnabled {
		producer, err := events.NewProducer(events.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaTopic,
			WriteTimeout: 10 * time.Second,
		}, logger)
		if err != nil {
			return nil, err
		}
		infra.startup.AddDependency(producer)
		publisher = producer
	}
	infra.emitter = events.NewEmitter(publisher, logger)

	if cfg.RedisEnabled {
		infra.redis = cache.NewClient(cache.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		infra.startup.AddDependency(infra.redis)
		infra.overview = cache.NewRedisOverviewCache(infra.redis.Redis(), cfg.OverviewTTL, logger)
	}

	if err := infra.startup.Start(ctx); err != nil {
		return nil, err
	}
	return infra, nil
}

func runAPI(ctx context.Context, envFile string) error {
	cfg, logger, shutdownTracing, err := bootstrap(ctx, envFile, "api")
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	infra, err := startInfrastructure(ctx, cfg, logger, cfg.DatabaseMigrateOnStartup)
	if err != nil {
		logger.WithError(err).Error("failed to start dependencies")
		return err
	}
	defer infra.startup.Stop(context.Background())

	profile, err := seed.DefaultProfile()
	if err != nil {
		return err
	}

	db := infra.database.DB()
	friends := friendrepo.NewRepository(db, logger)
	pets := petrepo.NewRepository(db, logger)
	quotes := quoterepo.NewRepository(db, logger)

	checker := health.NewChecker(cfg.Version)
	checker.AddCheck("database", func(ctx context.Context) error {
		return infra.database.Raw().PingContext(ctx)
	})
	if infra.redis != nil {
		checker.AddCheck("redis", func(ctx context.Context) error {
			return infra.redis.Redis().Ping(ctx).Err()
		})
	}

	e := newEcho(cfg, logger, "api")
	checker.Register(e.Group("/health"))

	api := e.Group("/api")
	if cfg.AuthEnabled {
		auth, err := middleware.NewAuthentication(ctx, logger, cfg.AuthIssuerURL, cfg.AuthClientID)
		if err != nil {
			return err
		}
		api.Use(auth)
	} else {
		api.Use(middleware.HeaderIdentity())
	}

	registrars := []interface{ RegisterRoutes(*echo.Group) }{
		handlers.NewFriendHandler(friendsvc.NewService(logger, friends, pets, quotes, infra.overview, infra.emitter)),
		handlers.NewPetHandler(petsvc.NewService(logger, pets, friends, infra.overview, infra.emitter)),
		handlers.NewQuoteHandler(quotesvc.NewService(logger, quotes, infra.overview, infra.emitter)),
		handlers.NewOverviewHandler(overviewsvc.NewService(logger, overviewrepo.NewRepository(db, logger), infra.overview)),
		handlers.NewAdminHandler(seedsvc.NewService(logger, seeddata.NewRepository(db, logger), profile, infra.overview, infra.emitter)),
	}
	for _, r := range registrars {
		r.RegisterRoutes(api)
	}

	checker.SetReady(true)
	return serve(ctx, e, cfg, cfg.APIPort, logger)
}
