// Package domain defines the ingest audit event and its sink port
package domain

import (
	"context"
	"time"
)

// Event is one pipeline decision about one post
type Event struct {
	At         time.Time
	ChannelRef string
	MessageID  int64
	Outcome    string
	Rule       string
	Kind       string
	Title      string
	Season     int
	Number     int
	Error      string
}

// SinkPort records pipeline decisions
type SinkPort interface {
	Record(ctx context.Context, events ...Event) error
}

// OutcomeCount is one row of the ingest summary
type OutcomeCount struct {
	Outcome string `json:"outcome"`
	Rule    string `json:"rule"`
	Events  uint64 `json:"events"`
}

// ReaderPort summarizes recent pipeline decisions
type ReaderPort interface {
	OutcomeCounts(ctx context.Context, since time.Time) ([]OutcomeCount, error)
}
