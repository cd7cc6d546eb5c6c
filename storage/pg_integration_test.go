//go:build integration

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("qrbot"),
		tcpostgres.WithUsername("qrbot"),
		tcpostgres.WithPassword("qrbot"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	suite.Run(t, &RecordStoreSuite{newStore: func(t *testing.T) RecordStore {
		store, err := ConnectPostgres(ctx, dsn)
		if err != nil {
			t.Fatalf("connect postgres: %v", err)
		}
		if _, err := store.DB().ExecContext(ctx, `DROP TABLE IF EXISTS identity_records`); err != nil {
			t.Fatalf("reset table: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		return store
	}})
}
