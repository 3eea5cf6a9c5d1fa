package domain

import (
	"context"
	"time"
)

// WriterPort is the idempotent write surface of the catalog
type WriterPort interface {
	// Upsert stores one part keyed on externalMessageID, creating its title on first reference
	Upsert(ctx context.Context, c Candidate, externalMessageID int64, channelRef string, postedAt time.Time) (Outcome, error)
	// LastMessageID returns the highest stored external id for channelRef, 0 when none
	LastMessageID(ctx context.Context, channelRef string) (int64, error)
}
