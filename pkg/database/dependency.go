package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ConnectionConfig describes how the postgres pool is opened and migrated.
type ConnectionConfig struct {
	Driver          string
	DSN             string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Migrate         bool
	Migration       MigrationConfig
}

// Dependency opens the database as a startup.StartupDependency.
type Dependency struct {
	config ConnectionConfig
	logger ectologger.Logger
	db     DB
	raw    *sqlx.DB
}

func NewDependency(config ConnectionConfig, logger ectologger.Logger) *Dependency {
	return &Dependency{config: config, logger: logger}
}

func (d *Dependency) GetName() string {
	return "database"
}

func (d *Dependency) DependsOn() []string {
	return nil
}

func (d *Dependency) Start(ctx context.Context) error {
	raw, err := sqlx.ConnectContext(ctx, d.config.Driver, d.config.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database %s: %w", d.config.Name, err)
	}

	raw.SetMaxOpenConns(d.config.MaxOpenConns)
	raw.SetMaxIdleConns(d.config.MaxIdleConns)
	raw.SetConnMaxLifetime(d.config.ConnMaxLifetime)

	if d.config.Migrate {
		migrations := NewMigrationService(d.logger, &d.config.Migration)
		if err := migrations.MigratePostgres(d.config.Name, raw.DB); err != nil {
			raw.Close()
			return err
		}
	}

	d.raw = raw
	d.db = NewDatabaseInstance(raw, d.logger)
	return nil
}

func (d *Dependency) Stop(ctx context.Context) error {
	if d.raw == nil {
		return nil
	}
	return d.raw.Close()
}

// DB returns the connected database. Only valid after Start.
func (d *Dependency) DB() DB {
	return d.db
}

// Raw returns the underlying pool, used by health checks.
func (d *Dependency) Raw() *sqlx.DB {
	return d.raw
}
