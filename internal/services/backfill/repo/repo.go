// Package repo provides postgres access for the import run ledger
package repo

import (
	"context"
	"time"

	"shoof/internal/modkit/repokit"
	perr "shoof/internal/platform/errors"
	"shoof/internal/platform/store"
	"shoof/internal/services/backfill/domain"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

// StartRun records a new run row; a reused run id is a Conflict
func (r *queries) StartRun(ctx context.Context, runID, channelRef string, at time.Time) error {
	err := store.ExecOne(ctx, r.q, `
		INSERT INTO ingest_runs (id, channel_ref, mode, started_at)
		VALUES ($1::uuid, $2, 'backfill', $3)
	`, runID, channelRef, at.UTC())
	if perr.IsDuplicateKey(err) {
		return perr.Wrapf(err, perr.ErrorCodeConflict, "run %s already recorded", runID)
	}
	return err
}

// FinishRun stores the final counts (idempotent); an unknown run id is an error
func (r *queries) FinishRun(ctx context.Context, runID string, fin domain.RunFinish) error {
	t := fin.Tally
	return store.ExecOne(ctx, r.q, `
		UPDATE ingest_runs SET
			finished_at = $2,
			fetched = $3,
			imported = $4,
			duplicates = $5,
			skipped = $6,
			misses = $7,
			failures = $8,
			error = NULLIF($9, '')
		WHERE id = $1::uuid
	`,
		runID, fin.FinishedAt.UTC(), t.Fetched, t.Imported, t.Duplicates, t.Skipped(),
		t.Misses, t.Failures, fin.ErrText,
	)
}

// ClaimLease inserts or takes over an expired lease row
func (r *queries) ClaimLease(ctx context.Context, channelRef, holder string, ttl time.Duration) (bool, error) {
	rows, err := r.q.Query(ctx, `
		INSERT INTO ingest_leases (channel_ref, holder, expires_at)
		VALUES ($1, $2::uuid, now() + make_interval(secs => $3))
		ON CONFLICT (channel_ref) DO UPDATE
		SET holder = EXCLUDED.holder, expires_at = EXCLUDED.expires_at
		WHERE ingest_leases.expires_at < now()
		RETURNING true
	`, channelRef, holder, ttl.Seconds())
	if err != nil {
		return false, err
	}
	defer rows.Close()
	claimed := rows.Next()
	return claimed, rows.Err()
}

// ReleaseLease deletes the lease owned by holder
func (r *queries) ReleaseLease(ctx context.Context, channelRef, holder string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM ingest_leases WHERE channel_ref = $1 AND holder = $2::uuid`, channelRef, holder)
	return err
}
