package module

import (
	"testing"
	"time"

	"shoof/internal/platform/config"
)

func TestFromConfig_Defaults(t *testing.T) {
	o := FromConfig(config.New())
	if !o.Enabled || o.Window.Limit != 500 || o.Window.BeforeID != 0 {
		t.Fatalf("defaults = %+v", o)
	}
	if o.MaxRetries != 3 || !o.EnableLeases || o.LeaseTTL != 30*time.Minute {
		t.Fatalf("defaults = %+v", o)
	}
}

func TestFromConfig_Env(t *testing.T) {
	t.Setenv("CORE_BACKFILL_ENABLED", "false")
	t.Setenv("CORE_BACKFILL_LIMIT", "50")
	t.Setenv("CORE_BACKFILL_BEFORE_ID", "1200")
	t.Setenv("CORE_BACKFILL_LEASES", "false")
	t.Setenv("CORE_BACKFILL_RETRY_BASE", "2s")

	o := FromConfig(config.New())
	if o.Enabled || o.EnableLeases {
		t.Fatalf("flags = %+v", o)
	}
	if o.Window.Limit != 50 || o.Window.BeforeID != 1200 || o.RetryBase != 2*time.Second {
		t.Fatalf("window = %+v", o)
	}
}
