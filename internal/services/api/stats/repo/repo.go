// Package repo provides postgres access for stats
package repo

import (
	"context"
	"time"

	"shoof/internal/modkit/repokit"
	"shoof/internal/platform/store"
	"shoof/internal/services/api/stats/domain"
)

// Repo is the minimal persistence surface for stats
type Repo interface {
	KindCounts(ctx context.Context) (domain.KindCounts, error)
	PartCount(ctx context.Context) (int, error)
	SampleTitles(ctx context.Context, n int) ([]string, error)
	RecentParts(ctx context.Context, n int) ([]RecentRow, error)
	RecentRuns(ctx context.Context, n int) ([]domain.Run, error)
}

// RecentRow is a recent part before its link is built
type RecentRow struct {
	domain.RecentPart
	ExternalMessageID int64
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) KindCounts(ctx context.Context) (domain.KindCounts, error) {
	const sql = `
select count(1) filter (where kind = 'series'),
       count(1) filter (where kind = 'movie'),
       count(1)
from titles
`
	var kc domain.KindCounts
	err := r.q.QueryRow(ctx, sql).Scan(&kc.Series, &kc.Movies, &kc.Total)
	return kc, err
}

func (r *queries) PartCount(ctx context.Context) (int, error) {
	return store.Scalar[int](ctx, r.q, `select count(1) from parts`)
}

func (r *queries) SampleTitles(ctx context.Context, n int) ([]string, error) {
	return store.Many(ctx, r.q, func(row store.Row) (string, error) {
		var name string
		return name, row.Scan(&name)
	}, `select name from titles order by id desc limit $1`, n)
}

func (r *queries) RecentParts(ctx context.Context, n int) ([]RecentRow, error) {
	const sql = `
select p.id, t.name, t.kind, p.season, p.part_number, p.external_message_id, p.added_at
from parts p
join titles t on t.id = p.title_id
order by p.added_at desc, p.id desc
limit $1
`
	return store.Many(ctx, r.q, func(row store.Row) (RecentRow, error) {
		var rr RecentRow
		err := row.Scan(&rr.ID, &rr.TitleName, &rr.Kind, &rr.Season, &rr.Number, &rr.ExternalMessageID, &rr.AddedAt)
		return rr, err
	}, sql, n)
}

func (r *queries) RecentRuns(ctx context.Context, n int) ([]domain.Run, error) {
	const sql = `
select id::text, channel_ref, mode, started_at, finished_at, fetched, imported, duplicates, skipped, coalesce(error, '')
from ingest_runs
order by started_at desc
limit $1
`
	return store.Many(ctx, r.q, func(row store.Row) (domain.Run, error) {
		var (
			run domain.Run
			fin *time.Time
		)
		err := row.Scan(&run.ID, &run.ChannelRef, &run.Mode, &run.StartedAt, &fin,
			&run.Fetched, &run.Imported, &run.Duplicates, &run.Skipped, &run.Error)
		run.FinishedAt = fin
		return run, err
	}, sql, n)
}
