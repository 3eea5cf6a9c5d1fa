package migrate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"shoof/internal/platform/store"
)

type tag struct{}

func (tag) String() string      { return "OK" }
func (tag) RowsAffected() int64 { return 0 }

type countRow struct{ n int64 }

func (r countRow) Scan(dest ...any) error { *(dest[0].(*int64)) = r.n; return nil }

// fakeTx records executed statements and reports versions in done as applied
type fakeTx struct {
	done   map[string]bool
	execs  []string
	failOn string
	rolled bool
}

func (f *fakeTx) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return nil, errors.New("syntax error")
	}
	f.execs = append(f.execs, sql)
	return tag{}, nil
}
func (f *fakeTx) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeTx) QueryRow(_ context.Context, _ string, args ...any) store.Row {
	if f.done[args[0].(string)] {
		return countRow{n: 1}
	}
	return countRow{}
}
func (f *fakeTx) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	if err := fn(f); err != nil {
		f.rolled = true
		return err
	}
	return nil
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"migrations/0002_b.sql": {Data: []byte("CREATE TABLE b ()")},
		"migrations/0001_a.sql": {Data: []byte("CREATE TABLE a ()")},
		"migrations/README.md":  {Data: []byte("ignored")},
		"migrations/0003_c.sql": {Data: []byte("CREATE TABLE c ()")},
	}
}

func TestLoad_SortedSQLOnly(t *testing.T) {
	t.Parallel()
	ms, err := Load(testFS())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ms) != 3 || ms[0].Version != "0001_a" || ms[2].Version != "0003_c" {
		t.Fatalf("versions = %+v", ms)
	}
}

func TestApply_SkipsRecorded(t *testing.T) {
	t.Parallel()
	f := &fakeTx{done: map[string]bool{"0001_a": true}}
	applied, err := Apply(context.Background(), f, testFS())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(applied) != 2 || applied[0] != "0002_b" || applied[1] != "0003_c" {
		t.Fatalf("applied = %v", applied)
	}
	for _, s := range f.execs {
		if s == "CREATE TABLE a ()" {
			t.Fatal("recorded migration re-applied")
		}
	}
}

func TestApply_FailureRollsBack(t *testing.T) {
	t.Parallel()
	f := &fakeTx{done: map[string]bool{}, failOn: "TABLE b"}
	_, err := Apply(context.Background(), f, testFS())
	if err == nil || !strings.Contains(err.Error(), "0002_b") {
		t.Fatalf("err = %v", err)
	}
	if !f.rolled {
		t.Fatal("expected rollback")
	}
}

func TestEmbeddedSchema(t *testing.T) {
	t.Parallel()
	ms, err := Load(embedded)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ms) < 2 || !strings.Contains(ms[0].SQL, "external_message_id BIGINT      NOT NULL UNIQUE") {
		t.Fatalf("embedded schema missing parts uniqueness")
	}
}
