package store

import (
	"context"
	"errors"
	"testing"

	perr "shoof/internal/platform/errors"
)

type cmdTag int64

func (c cmdTag) String() string      { return "UPDATE" }
func (c cmdTag) RowsAffected() int64 { return int64(c) }

// fakeRows yields int64 values from data, one column per row
type fakeRows struct {
	data   []int64
	idx    int
	err    error
	closed bool
}

func (r *fakeRows) Next() bool {
	if r.err != nil {
		return false
	}
	r.idx++
	return r.idx <= len(r.data)
}
func (r *fakeRows) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.data[r.idx-1]
	return nil
}
func (r *fakeRows) Err() error        { return r.err }
func (r *fakeRows) Close()            { r.closed = true }
func (r *fakeRows) Columns() []string { return []string{"id"} }

type scalarRow struct {
	v   int64
	err error
}

func (r scalarRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.v
	return nil
}

type fakeQuerier struct {
	tag      CommandTag
	execErr  error
	rows     *fakeRows
	queryErr error
	row      Row
	lastSQL  string
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, _ ...any) (CommandTag, error) {
	f.lastSQL = sql
	return f.tag, f.execErr
}
func (f *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (Rows, error) {
	f.lastSQL = sql
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}
func (f *fakeQuerier) QueryRow(_ context.Context, sql string, _ ...any) Row {
	f.lastSQL = sql
	return f.row
}

func scanID(r Row) (int64, error) {
	var id int64
	err := r.Scan(&id)
	return id, err
}

func TestExecOne(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	if err := ExecOne(ctx, &fakeQuerier{tag: cmdTag(1)}, "UPDATE x"); err != nil {
		t.Fatalf("one row: %v", err)
	}
	if err := ExecOne(ctx, &fakeQuerier{tag: cmdTag(0)}, "UPDATE x"); err == nil {
		t.Fatal("zero rows should fail")
	}
	if err := ExecOne(ctx, &fakeQuerier{tag: cmdTag(11)}, "UPDATE x"); err == nil {
		t.Fatal("eleven rows should fail")
	}
	boom := errors.New("boom")
	if err := ExecOne(ctx, &fakeQuerier{execErr: boom}, "UPDATE x"); !errors.Is(err, boom) {
		t.Fatalf("exec error not propagated: %v", err)
	}
}

func TestScalar(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	n, err := Scalar[int64](ctx, &fakeQuerier{row: scalarRow{v: 42}}, "SELECT 42")
	if err != nil || n != 42 {
		t.Fatalf("Scalar = %d, %v", n, err)
	}
	n, err = Scalar[int64](ctx, &fakeQuerier{row: scalarRow{v: 42, err: errors.New("no rows")}}, "SELECT 42")
	if err == nil || n != 0 {
		t.Fatalf("Scalar on error = %d, %v", n, err)
	}
}

func TestOne(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rs := &fakeRows{data: []int64{7}}
	id, err := One(ctx, &fakeQuerier{rows: rs}, scanID, "SELECT id")
	if err != nil || id != 7 || !rs.closed {
		t.Fatalf("One = %d, %v closed=%v", id, err, rs.closed)
	}

	_, err = One(ctx, &fakeQuerier{rows: &fakeRows{}}, scanID, "SELECT id")
	if !perr.IsNotFound(err) {
		t.Fatalf("empty result should be not found, got %v", err)
	}

	_, err = One(ctx, &fakeQuerier{rows: &fakeRows{data: []int64{1, 2}}}, scanID, "SELECT id")
	if err == nil {
		t.Fatal("two rows should fail")
	}

	iterErr := errors.New("conn reset")
	_, err = One(ctx, &fakeQuerier{rows: &fakeRows{err: iterErr}}, scanID, "SELECT id")
	if !errors.Is(err, iterErr) {
		t.Fatalf("iterator error not surfaced: %v", err)
	}
}

func TestMany(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ids, err := Many(ctx, &fakeQuerier{rows: &fakeRows{data: []int64{3, 1, 2}}}, scanID, "SELECT id")
	if err != nil || len(ids) != 3 || ids[0] != 3 || ids[2] != 2 {
		t.Fatalf("Many = %v, %v", ids, err)
	}

	ids, err = Many(ctx, &fakeQuerier{rows: &fakeRows{}}, scanID, "SELECT id")
	if err != nil || ids == nil || len(ids) != 0 {
		t.Fatalf("empty Many = %#v, %v", ids, err)
	}

	boom := errors.New("boom")
	if _, err := Many(ctx, &fakeQuerier{queryErr: boom}, scanID, "SELECT id"); !errors.Is(err, boom) {
		t.Fatalf("query error not surfaced: %v", err)
	}
}
