//go:build integration_pg

package pg

import (
	"context"
	"testing"
	"time"

	"shoof/internal/platform/testkit"

	"github.com/jackc/pgx/v5"
)

func TestOpen_Integration(t *testing.T) {
	dsn := testkit.StartPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	p, err := Open(ctx, Config{URL: dsn, AppName: "shoof-pg-integration", MaxConns: 2}, nil, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(p.Close)

	conn := AcquireConn(t, p, ctx)
	if _, err := conn.Exec(ctx, `create temporary table t (id bigint primary key, name text)`); err != nil {
		t.Fatalf("create temp table: %v", err)
	}
	if _, err := conn.Exec(ctx, `insert into t (id, name) values ($1, $2) on conflict (id) do nothing`, 500, "وش في وش"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	tag, err := conn.Exec(ctx, `insert into t (id, name) values ($1, $2) on conflict (id) do nothing`, 500, "again")
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if tag.RowsAffected() != 0 {
		t.Fatalf("conflicting insert affected %d rows", tag.RowsAffected())
	}

	type row struct {
		ID   int64
		Name string
	}
	rows, err := conn.Query(ctx, `select id, name from t order by id`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	got, err := pgx.CollectRows(rows, pgx.RowToStructByPos[row])
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(got) != 1 || got[0].Name != "وش في وش" {
		t.Fatalf("unexpected rows: %#v", got)
	}

	var app string
	if err := conn.QueryRow(ctx, `select current_setting('application_name')`).Scan(&app); err != nil {
		t.Fatalf("application_name: %v", err)
	}
	if app != "shoof-pg-integration" {
		t.Fatalf("application_name = %q", app)
	}
}
