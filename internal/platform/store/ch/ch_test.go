package ch

import (
	"context"
	"errors"
	"strings"
	"testing"

	kit "shoof/internal/platform/testkit"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type fakeBatch struct {
	rows    [][]any
	failAt  int
	sent    bool
	aborted bool
}

func (b *fakeBatch) Append(v ...any) error {
	if b.failAt > 0 && len(b.rows)+1 == b.failAt {
		return errors.New("column count mismatch")
	}
	b.rows = append(b.rows, v)
	return nil
}
func (b *fakeBatch) Send() error  { b.sent = true; return nil }
func (b *fakeBatch) Abort() error { b.aborted = true; return nil }

type fakeConn struct {
	batch    *fakeBatch
	prepared string
	pingErr  error
	closed   bool
	execs    []string
}

func (c *fakeConn) PrepareBatch(_ context.Context, q string) (batch, error) {
	c.prepared = q
	return c.batch, nil
}
func (c *fakeConn) Query(context.Context, string, ...any) (Rows, error) {
	return nil, errors.New("no server")
}
func (c *fakeConn) Exec(_ context.Context, q string, _ ...any) error {
	c.execs = append(c.execs, q)
	return nil
}
func (c *fakeConn) Ping(context.Context) error { return c.pingErr }
func (c *fakeConn) Close() error               { c.closed = true; return nil }

func TestOpen_BadDSN(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), Config{URL: "://nope"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOpen_PingFailureClosesConn(t *testing.T) {
	fc := &fakeConn{pingErr: errors.New("refused")}
	var gotInfo clickhouse.ClientInfo
	kit.SwapSerial(t, &dial, func(o *clickhouse.Options) (conn, error) {
		gotInfo = o.ClientInfo
		return fc, nil
	})

	_, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000/shoof", Role: "shoof-ingest", Tag: "v1"})
	if err == nil || !strings.Contains(err.Error(), "ping") {
		t.Fatalf("err = %v", err)
	}
	if !fc.closed {
		t.Fatal("conn not closed after failed ping")
	}
	if len(gotInfo.Products) == 0 || gotInfo.Products[0].Name != "shoof" || gotInfo.Products[1].Version != "shoof-ingest" {
		t.Fatalf("client info = %+v", gotInfo.Products)
	}
}

func TestInsert_SendsOneBatch(t *testing.T) {
	t.Parallel()
	fb := &fakeBatch{}
	fc := &fakeConn{batch: fb}
	c := &CH{c: fc}

	if err := c.Insert(context.Background(), "ingest_events", [][]any{{1, "a"}, {2, "b"}}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if fc.prepared != "INSERT INTO ingest_events" || len(fb.rows) != 2 || !fb.sent {
		t.Fatalf("prepared=%q rows=%d sent=%v", fc.prepared, len(fb.rows), fb.sent)
	}
}

func TestInsert_AppendFailureAborts(t *testing.T) {
	t.Parallel()
	fb := &fakeBatch{failAt: 2}
	c := &CH{c: &fakeConn{batch: fb}}

	err := c.Insert(context.Background(), "ingest_events", [][]any{{1}, {2}})
	if err == nil || !strings.Contains(err.Error(), "append row 1") {
		t.Fatalf("err = %v", err)
	}
	if !fb.aborted || fb.sent {
		t.Fatalf("aborted=%v sent=%v", fb.aborted, fb.sent)
	}
}

func TestInsert_EmptyIsNoop(t *testing.T) {
	t.Parallel()
	fc := &fakeConn{}
	c := &CH{c: fc}
	if err := c.Insert(context.Background(), "t", nil); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if fc.prepared != "" {
		t.Fatal("batch prepared for empty insert")
	}
}

func TestClose_NilSafe(t *testing.T) {
	t.Parallel()
	var c *CH
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestBuildClientInfo_Products(t *testing.T) {
	t.Parallel()
	info := BuildClientInfo(" shoof-api ", "dev")
	names := map[string]string{}
	for _, p := range info.Products {
		names[p.Name] = p.Version
	}
	if names["role"] != "shoof-api" || names["shoof"] != "dev" || names["go"] == "" {
		t.Fatalf("products = %+v", names)
	}
}

func TestExec_Delegates(t *testing.T) {
	fc := &fakeConn{}
	c := &CH{c: fc}
	if err := c.Exec(context.Background(), "CREATE TABLE t (x UInt8) ENGINE = Memory"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if len(fc.execs) != 1 {
		t.Fatalf("execs = %v", fc.execs)
	}
}
