// Package domain holds the types of a channel history import
package domain

import (
	"time"

	"shoof/internal/adapters/ingest/channel"
	ingestdom "shoof/internal/services/ingest/domain"
)

// Window bounds one import; Limit is required
type Window = channel.Window

// MaxLimit caps how many posts one import may fetch
const MaxLimit = 10000

// Report is the result of one import run
// Imported is the count of new parts, Skipped counts misses and store failures
type Report struct {
	RunID      string    `json:"run_id"`
	Channel    string    `json:"channel"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	ingestdom.Tally
	Skipped int `json:"skipped"`
}

// RunFinish is what the run ledger stores when an import ends
type RunFinish struct {
	FinishedAt time.Time
	Tally      ingestdom.Tally
	ErrText    string
}
