//go:build integration_pg

// Package pgtest opens a migrated catalog database inside a throwaway container
package pgtest

import (
	"context"
	"io"
	"testing"
	"time"

	"shoof/internal/platform/store"
	"shoof/internal/platform/store/migrate"
	kit "shoof/internal/platform/testkit"

	"github.com/rs/zerolog"
)

// Open starts postgres, applies the embedded schema and returns the store
func Open(t *testing.T) *store.Store {
	t.Helper()
	dsn := kit.StartPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	s, err := store.Open(ctx, store.Config{
		AppName: "shoof-test",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 4, SlowQueryMs: 250},
	}, store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	if _, err := migrate.Up(ctx, s.PG); err != nil {
		t.Fatalf("migrate.Up: %v", err)
	}
	return s
}
