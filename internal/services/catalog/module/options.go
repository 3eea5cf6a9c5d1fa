package module

import (
	"time"

	"shoof/internal/platform/config"
)

// Options controls the catalog writer
type Options struct {
	StatementTimeout time.Duration
}

// FromConfig reads options using the CORE_CATALOG_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_CATALOG_")
	return Options{
		StatementTimeout: c.MayDuration("STATEMENT_TIMEOUT", 5*time.Second),
	}
}
