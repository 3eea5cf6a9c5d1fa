package repo

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"shoof/internal/core/classify"
	"shoof/internal/modkit/repokit"
)

// idRows yields at most one id
type idRows struct {
	ids  []int64
	next int
}

func (r *idRows) Next() bool {
	if r.next >= len(r.ids) {
		return false
	}
	r.next++
	return true
}
func (r *idRows) Scan(dst ...any) error {
	*(dst[0].(*int64)) = r.ids[r.next-1]
	return nil
}
func (r *idRows) Err() error        { return nil }
func (r *idRows) Close()            {}
func (r *idRows) Columns() []string { return []string{"id"} }

// scriptQ answers each Query with the next scripted id list, nil meaning no row
type scriptQ struct {
	answers [][]int64
	err     error
	sqls    []string
}

func (q *scriptQ) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	return nil, errors.New("not used")
}

func (q *scriptQ) Query(_ context.Context, sql string, _ ...any) (repokit.Rows, error) {
	q.sqls = append(q.sqls, strings.Fields(sql)[0])
	if q.err != nil {
		return nil, q.err
	}
	var ids []int64
	if len(q.answers) > 0 {
		ids, q.answers = q.answers[0], q.answers[1:]
	}
	return &idRows{ids: ids}, nil
}

func (q *scriptQ) QueryRow(context.Context, string, ...any) repokit.Row { return nil }

func TestUpsertTitle(t *testing.T) {
	cases := []struct {
		name    string
		answers [][]int64
		id      int64
		created bool
		sqls    []string
	}{
		{"known title is read only", [][]int64{{4}}, 4, false, []string{"SELECT"}},
		{"new title is inserted", [][]int64{nil, {7}}, 7, true, []string{"SELECT", "INSERT"}},
		{"lost race rereads the winner", [][]int64{nil, nil, {9}}, 9, false, []string{"SELECT", "INSERT", "SELECT"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := &scriptQ{answers: tc.answers}
			id, created, err := NewPG().Bind(q).UpsertTitle(context.Background(), "المحافظ", classify.KindSeries)
			if err != nil || id != tc.id || created != tc.created {
				t.Fatalf("UpsertTitle = %d, %v, %v; want %d, %v", id, created, err, tc.id, tc.created)
			}
			if !slices.Equal(q.sqls, tc.sqls) {
				t.Fatalf("statements = %v, want %v", q.sqls, tc.sqls)
			}
		})
	}
}

func TestUpsertTitle_ReadError(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	q := &scriptQ{err: boom}
	if _, _, err := NewPG().Bind(q).UpsertTitle(context.Background(), "المحافظ", classify.KindSeries); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if len(q.sqls) != 1 {
		t.Fatalf("statements = %v, want no insert after a failed read", q.sqls)
	}
}
