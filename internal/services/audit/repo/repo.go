// Package repo stores ingest audit events in clickhouse
package repo

import (
	"context"
	"time"

	"shoof/internal/platform/store"
	"shoof/internal/services/audit/domain"
)

// Table is the clickhouse table holding audit events
const Table = "ingest_events"

const ddl = `
CREATE TABLE IF NOT EXISTS ingest_events (
    ts          DateTime64(3, 'UTC'),
    channel_ref LowCardinality(String),
    message_id  Int64,
    outcome     LowCardinality(String),
    rule        LowCardinality(String),
    kind        LowCardinality(String),
    title       String,
    season      UInt32,
    part_number UInt32,
    error       String
)
ENGINE = MergeTree
ORDER BY (channel_ref, ts, message_id)
TTL toDateTime(ts) + INTERVAL 180 DAY`

// CH is the clickhouse audit repo
type CH struct{ db store.Clickhouse }

// NewCH binds the repo to a clickhouse seam
func NewCH(db store.Clickhouse) *CH { return &CH{db: db} }

// EnsureSchema creates the events table when missing
func (r *CH) EnsureSchema(ctx context.Context) error { return r.db.Exec(ctx, ddl) }

// Insert writes events in one batch, column order matches the ddl
func (r *CH) Insert(ctx context.Context, events []domain.Event) error {
	rows := make([][]any, 0, len(events))
	for _, e := range events {
		rows = append(rows, []any{
			e.At.UTC(), e.ChannelRef, e.MessageID, e.Outcome, e.Rule, e.Kind,
			e.Title, uint32(max(e.Season, 0)), uint32(max(e.Number, 0)), e.Error,
		})
	}
	return r.db.Insert(ctx, Table, rows)
}

// OutcomeCounts groups events since a point in time by outcome and rule
func (r *CH) OutcomeCounts(ctx context.Context, since time.Time) ([]domain.OutcomeCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT outcome, rule, count() AS events
		FROM ingest_events
		WHERE ts >= ?
		GROUP BY outcome, rule
		ORDER BY events DESC, outcome, rule`, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.OutcomeCount{}
	for rows.Next() {
		var c domain.OutcomeCount
		if err := rows.Scan(&c.Outcome, &c.Rule, &c.Events); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
