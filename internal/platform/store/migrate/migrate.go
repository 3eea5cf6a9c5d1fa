// Package migrate applies the embedded postgres schema in version order
package migrate

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"shoof/internal/platform/logger"
	"shoof/internal/platform/store"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migration is one versioned sql file
type Migration struct {
	Version string
	SQL     string
}

// Load reads every *.sql file under migrations/ sorted by name
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, n := range names {
		b, err := fs.ReadFile(fsys, "migrations/"+n)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", n, err)
		}
		out = append(out, Migration{Version: strings.TrimSuffix(n, ".sql"), SQL: string(b)})
	}
	return out, nil
}

// Up applies the embedded schema
func Up(ctx context.Context, tx store.TxRunner) ([]string, error) {
	return Apply(ctx, tx, embedded)
}

// Apply runs every migration in fsys not yet recorded in schema_migrations
// everything happens in one transaction; it returns the versions applied
func Apply(ctx context.Context, tx store.TxRunner, fsys fs.FS) ([]string, error) {
	ms, err := Load(fsys)
	if err != nil {
		return nil, err
	}
	log := logger.C(ctx)

	var applied []string
	err = tx.Tx(ctx, func(q store.RowQuerier) error {
		applied = applied[:0]
		if _, err := q.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
			return fmt.Errorf("ensure schema_migrations: %w", err)
		}
		// one runner at a time across processes
		if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('shoof.schema_migrations'))`); err != nil {
			return fmt.Errorf("migration lock: %w", err)
		}

		for _, m := range ms {
			n, err := store.Scalar[int64](ctx, q, `SELECT count(*) FROM schema_migrations WHERE version = $1`, m.Version)
			if err != nil {
				return fmt.Errorf("check migration %s: %w", m.Version, err)
			}
			if n > 0 {
				continue
			}
			if _, err := q.Exec(ctx, m.SQL); err != nil {
				return fmt.Errorf("apply migration %s: %w", m.Version, err)
			}
			if _, err := q.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
				return fmt.Errorf("record migration %s: %w", m.Version, err)
			}
			applied = append(applied, m.Version)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, v := range applied {
		log.Info().Str("version", v).Msg("migration applied")
	}
	return applied, nil
}
