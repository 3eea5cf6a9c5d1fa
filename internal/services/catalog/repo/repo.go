// Package repo provides the catalog write repository over postgres
package repo

import (
	"context"
	"time"

	"shoof/internal/modkit/repokit"
	perr "shoof/internal/platform/errors"
	"shoof/internal/platform/store"
	ptime "shoof/internal/platform/time"
	"shoof/internal/services/catalog/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the catalog write repository
type Storage interface {
	// UpsertTitle resolves (name, kind) to an id, creating the row when missing
	UpsertTitle(ctx context.Context, name string, kind domain.Kind) (id int64, created bool, err error)
	// InsertPart stores a part; inserted is false when the external id already exists
	InsertPart(ctx context.Context, p PartRow) (inserted bool, err error)
	// LastMessageID returns max(external_message_id) for a channel, 0 when none
	LastMessageID(ctx context.Context, channelRef string) (int64, error)
}

// PartRow is one parts insert
type PartRow struct {
	TitleID           int64
	Season            int
	Number            int
	ExternalMessageID int64
	ChannelRef        string
	PostedAt          time.Time
}

const (
	selectTitleSQL = `SELECT id FROM titles WHERE name = $1 AND kind = $2`
	// a lost race returns no row and leaves the winner's row untouched
	insertTitleSQL = `
	INSERT INTO titles (name, kind) VALUES ($1, $2)
	ON CONFLICT (name, kind) DO NOTHING
	RETURNING id`
)

// UpsertTitle implements Storage
// known titles cost one read and no write
func (s *pg) UpsertTitle(ctx context.Context, name string, kind domain.Kind) (int64, bool, error) {
	if id, err := s.titleID(ctx, selectTitleSQL, name, kind); !perr.IsNotFound(err) {
		return id, false, err
	}
	id, err := s.titleID(ctx, insertTitleSQL, name, kind)
	if !perr.IsNotFound(err) {
		return id, err == nil, err
	}
	// another writer created it between the read and the insert
	id, err = s.titleID(ctx, selectTitleSQL, name, kind)
	return id, false, err
}

func (s *pg) titleID(ctx context.Context, sql, name string, kind domain.Kind) (int64, error) {
	return store.One(ctx, s.q, scanID, sql, name, string(kind))
}

func scanID(r store.Row) (int64, error) {
	var id int64
	err := r.Scan(&id)
	return id, err
}

// InsertPart implements Storage
func (s *pg) InsertPart(ctx context.Context, p PartRow) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		INSERT INTO parts (title_id, season, part_number, external_message_id, channel_ref, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_message_id) DO NOTHING`,
		p.TitleID, p.Season, p.Number, p.ExternalMessageID, p.ChannelRef, ptime.Ptr(p.PostedAt.UTC()),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// LastMessageID implements Storage
func (s *pg) LastMessageID(ctx context.Context, channelRef string) (int64, error) {
	var id int64
	err := s.q.QueryRow(ctx,
		`SELECT COALESCE(MAX(external_message_id), 0) FROM parts WHERE channel_ref = $1`,
		channelRef,
	).Scan(&id)
	return id, err
}
