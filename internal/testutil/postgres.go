// Package testutil starts throwaway infrastructure for integration tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/logging"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// migrationsPath resolves db/pg from this file so tests work from any package.
func migrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "db", "pg")
}

// StartPostgres runs a migrated postgres container for the duration of the
// test. Skipped with -short.
func StartPostgres(t *testing.T) database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "fern",
			"POSTGRES_PASSWORD": "fern",
			"POSTGRES_DB":       "fern",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get postgres host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get postgres port: %v", err)
	}

	dep := database.NewDependency(database.ConnectionConfig{
		Driver:          "postgres",
		DSN:             fmt.Sprintf("host=%s port=%s user=fern password=fern dbname=fern sslmode=disable", host, port.Port()),
		Name:            "fern",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		Migrate:         true,
		Migration: database.MigrationConfig{
			MigrationFolderPath: migrationsPath(),
		},
	}, logging.Discard())

	if err := dep.Start(ctx); err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(func() {
		_ = dep.Stop(context.Background())
	})

	return dep.DB()
}
