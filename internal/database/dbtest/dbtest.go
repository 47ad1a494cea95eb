// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package dbtest opens a migrated PostgreSQL database for integration
// tests. It prefers the database named by the POSTGRES_* environment
// variables and falls back to a throwaway testcontainers instance. Tests
// are skipped when neither is available.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"helpcenter/internal/database"
)

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

// EnvDSN returns the connection string for the configured test database.
// Defaults match the local development config.
func EnvDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "helpcenter")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "helpcenter")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Open returns a migrated database handle, closed when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	db, err := ping(EnvDSN())
	if err != nil {
		dsn, cerr := startContainer()
		if cerr != nil {
			t.Skipf("skipping integration test: DB not reachable (%v) and no container (%v)", err, cerr)
		}
		db, err = ping(dsn)
		if err != nil {
			t.Skipf("skipping integration test: container DB not reachable: %v", err)
		}
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func ping(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// startContainer launches one PostgreSQL container per test binary. The
// testcontainers reaper removes it when the process exits.
func startContainer() (string, error) {
	containerOnce.Do(func() {
		ctx := context.Background()
		ctr, err := postgres.Run(ctx, "postgres:16-alpine",
			postgres.WithDatabase("helpcenter_test"),
			postgres.WithUsername("helpcenter"),
			postgres.WithPassword("helpcenter"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			containerErr = fmt.Errorf("start postgres container: %w", err)
			return
		}
		containerDSN, containerErr = ctr.ConnectionString(ctx, "sslmode=disable")
	})
	return containerDSN, containerErr
}
