package guardrails

import (
	"context"
	"errors"
	"time"

	"shoof/internal/modkit/repokit"
	"shoof/internal/platform/logger"
	"shoof/internal/services/backfill/domain"
)

// ErrLeaseHeld signals another import owns the channel already
var ErrLeaseHeld = errors.New("backfill: channel lease already held")

// LeaseFunc runs do while holding the import lease of channelRef
type LeaseFunc func(ctx context.Context, channelRef, holder string, do func(context.Context) error) error

// MakeLease returns a LeaseFunc backed by the ingest_leases table
// a crashed holder's lease expires after ttl; release runs even when ctx is cancelled
func MakeLease(db repokit.TxRunner, b repokit.Binder[domain.StorageRepo], ttl time.Duration) LeaseFunc {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return func(ctx context.Context, channelRef, holder string, do func(context.Context) error) error {
		ok, err := b.Bind(db).ClaimLease(ctx, channelRef, holder, ttl)
		if err != nil {
			return err
		}
		if !ok {
			return ErrLeaseHeld
		}
		defer func() {
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := b.Bind(db).ReleaseLease(rctx, channelRef, holder); err != nil {
				logger.C(ctx).Warn().Err(err).Str("channel", channelRef).Msg("backfill: lease release failed")
			}
		}()
		return do(ctx)
	}
}

// NoLease runs do directly
func NoLease(ctx context.Context, _, _ string, do func(context.Context) error) error { return do(ctx) }
