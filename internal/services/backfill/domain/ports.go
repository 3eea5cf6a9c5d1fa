package domain

import (
	"context"
	"time"
)

// RunnerPort is the public port other modules and binaries call
type RunnerPort interface {
	Import(ctx context.Context, w Window) (Report, error)
}

// StorageRepo is the run ledger and lease store
type StorageRepo interface {
	// StartRun records a run as started
	StartRun(ctx context.Context, runID, channelRef string, at time.Time) error

	// FinishRun stores the final counts of a run
	FinishRun(ctx context.Context, runID string, fin RunFinish) error

	// ClaimLease takes the per channel import lease for ttl; ok is false when another run holds it
	ClaimLease(ctx context.Context, channelRef, holder string, ttl time.Duration) (ok bool, err error)

	// ReleaseLease drops the lease if holder still owns it
	ReleaseLease(ctx context.Context, channelRef, holder string) error
}
