// Package repo provides postgres reads for the catalog api
package repo

import (
	"context"
	"fmt"
	"time"

	"shoof/internal/modkit/repokit"
	"shoof/internal/platform/store"
	"shoof/internal/services/api/catalog/domain"
)

// Repo is the read surface over titles and parts
type Repo interface {
	ListTitles(ctx context.Context, f TitleFilter) ([]domain.TitleSummary, error)
	CountTitles(ctx context.Context, kind string) (int, error)
	GetTitle(ctx context.Context, id int64) (domain.TitleSummary, error)
	ListParts(ctx context.Context, titleID int64) ([]PartRow, error)
	GetPart(ctx context.Context, id int64) (domain.PartView, error)
}

// TitleFilter is a validated listing request
type TitleFilter struct {
	Sort   domain.Sort
	Kind   string
	Limit  int
	Offset int
}

// PartRow is one part of a title in catalog order
type PartRow struct {
	ID                int64
	Season            int
	Number            int
	ExternalMessageID int64
	AddedAt           time.Time
}

type (
	// PG binds the repo to a Queryer or TxRunner
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns the postgres binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// order clauses are fixed strings keyed by a validated sort, never user text
var orderBy = map[domain.Sort]string{
	domain.SortInsertion:    `t.id ASC`,
	domain.SortAlphabetical: `lower(t.name) ASC, t.id ASC`,
	domain.SortRecent:       `COALESCE(max(p.added_at), t.created_at) DESC, t.id DESC`,
}

const listTitlesSQL = `
select t.id, t.name, t.kind, count(p.id) as part_count, t.created_at
from titles t
left join parts p on p.title_id = t.id
where ($1 = '' or t.kind = $1)
group by t.id
order by %s
limit $2 offset $3
`

func (r *queries) ListTitles(ctx context.Context, f TitleFilter) ([]domain.TitleSummary, error) {
	order, ok := orderBy[f.Sort]
	if !ok {
		order = orderBy[domain.SortInsertion]
	}
	return store.Many(ctx, r.q, scanTitle, fmt.Sprintf(listTitlesSQL, order), f.Kind, f.Limit, f.Offset)
}

func (r *queries) CountTitles(ctx context.Context, kind string) (int, error) {
	return store.Scalar[int](ctx, r.q, `select count(1) from titles where ($1 = '' or kind = $1)`, kind)
}

func (r *queries) GetTitle(ctx context.Context, id int64) (domain.TitleSummary, error) {
	const sql = `
select t.id, t.name, t.kind, count(p.id) as part_count, t.created_at
from titles t
left join parts p on p.title_id = t.id
where t.id = $1
group by t.id
`
	return store.One(ctx, r.q, scanTitle, sql, id)
}

func (r *queries) ListParts(ctx context.Context, titleID int64) ([]PartRow, error) {
	const sql = `
select id, season, part_number, external_message_id, added_at
from parts
where title_id = $1
order by season asc, part_number asc, id asc
`
	return store.Many(ctx, r.q, func(row store.Row) (PartRow, error) {
		var p PartRow
		err := row.Scan(&p.ID, &p.Season, &p.Number, &p.ExternalMessageID, &p.AddedAt)
		return p, err
	}, sql, titleID)
}

func (r *queries) GetPart(ctx context.Context, id int64) (domain.PartView, error) {
	const sql = `
select p.id, p.title_id, t.name, t.kind, p.season, p.part_number,
       p.external_message_id, p.channel_ref, p.posted_at, p.added_at
from parts p
join titles t on t.id = p.title_id
where p.id = $1
`
	return store.One(ctx, r.q, func(row store.Row) (domain.PartView, error) {
		var (
			v    domain.PartView
			kind string
		)
		err := row.Scan(&v.ID, &v.TitleID, &v.TitleName, &kind, &v.Season, &v.PartNumber,
			&v.ExternalMessageID, &v.ChannelRef, &v.PostedAt, &v.AddedAt)
		v.Kind = domain.Kind(kind)
		return v, err
	}, sql, id)
}

func scanTitle(row store.Row) (domain.TitleSummary, error) {
	var (
		t    domain.TitleSummary
		kind string
	)
	err := row.Scan(&t.ID, &t.Name, &kind, &t.PartCount, &t.CreatedAt)
	t.Kind = domain.Kind(kind)
	return t, err
}
