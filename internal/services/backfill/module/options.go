package module

import (
	"time"

	"shoof/internal/platform/config"
	"shoof/internal/services/backfill/domain"
)

// Options holds configuration options for the backfill module
type Options struct {
	// Enabled runs one import when the ingest binary starts
	Enabled bool
	Window  domain.Window

	MaxRetries   int
	RetryBase    time.Duration
	FetchTimeout time.Duration
	RunTimeout   time.Duration
	EnableLeases bool
	LeaseTTL     time.Duration
}

// FromConfig reads the backfill options from config with CORE_BACKFILL_ prefix
func FromConfig(cfg config.Conf) Options {
	bf := cfg.Prefix("CORE_BACKFILL_")
	return Options{
		Enabled: bf.MayBool("ENABLED", true),
		Window: domain.Window{
			Limit:    bf.MayInt("LIMIT", 500),
			BeforeID: bf.MayInt64("BEFORE_ID", 0),
		},
		MaxRetries:   bf.MayInt("MAX_RETRIES", 3),
		RetryBase:    bf.MayDuration("RETRY_BASE", 500*time.Millisecond),
		FetchTimeout: bf.MayDuration("FETCH_TIMEOUT", 2*time.Minute),
		RunTimeout:   bf.MayDuration("RUN_TIMEOUT", 0),
		EnableLeases: bf.MayBool("LEASES", true),
		LeaseTTL:     bf.MayDuration("LEASE_TTL", 30*time.Minute),
	}
}
