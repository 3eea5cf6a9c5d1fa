// Package domain holds the types and ports of the live channel monitor
package domain

import (
	"context"

	"shoof/internal/adapters/ingest/channel"
)

// WorkerPort is the long running monitor loop
type WorkerPort interface {
	// Run follows the channel until ctx is cancelled (nil) or reconnects are exhausted
	Run(ctx context.Context) error
}

// Source is the live side of a channel
type Source interface {
	channel.Streamer
	Ref() string
}

// ResumePort yields the newest message id already in the catalog
type ResumePort interface {
	LastMessageID(ctx context.Context, channelRef string) (int64, error)
}

// CursorRepo persists the last handled message id per channel
type CursorRepo interface {
	// Get returns the stored cursor; ok is false when none exists yet
	Get(ctx context.Context, channelRef string) (id int64, ok bool, err error)

	// Advance stores id unless a larger cursor is already stored
	Advance(ctx context.Context, channelRef string, id int64) error
}
