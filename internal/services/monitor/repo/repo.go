// Package repo stores monitor cursors in postgres
package repo

import (
	"context"

	"shoof/internal/modkit/repokit"
	perr "shoof/internal/platform/errors"
	"shoof/internal/platform/store"
	"shoof/internal/services/monitor/domain"
)

type (
	// PG is a Postgres binder for domain.CursorRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.CursorRepo
func NewPG() repokit.Binder[domain.CursorRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.CursorRepo { return &queries{q: q} }

func (r *queries) Get(ctx context.Context, channelRef string) (int64, bool, error) {
	id, err := store.One(ctx, r.q, scanID, `
		SELECT last_message_id FROM ingest_cursors WHERE channel_ref = $1
	`, channelRef)
	if perr.IsNotFound(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// Advance never moves a cursor backwards
func (r *queries) Advance(ctx context.Context, channelRef string, id int64) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ingest_cursors (channel_ref, last_message_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (channel_ref) DO UPDATE
		SET last_message_id = EXCLUDED.last_message_id, updated_at = now()
		WHERE ingest_cursors.last_message_id < EXCLUDED.last_message_id
	`, channelRef, id)
	return err
}

func scanID(r store.Row) (int64, error) {
	var id int64
	err := r.Scan(&id)
	return id, err
}
