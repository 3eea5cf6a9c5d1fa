package module

import (
	"time"

	"shoof/internal/platform/config"
)

// Options controls the live monitor
type Options struct {
	// PollInterval paces sources that poll rather than push
	PollInterval time.Duration

	BackoffBase   time.Duration
	BackoffMax    time.Duration
	MaxReconnects int

	// WriteTimeout bounds each post's store writes in the ingest pipeline
	WriteTimeout time.Duration
}

// FromConfig reads options using the CORE_MONITOR_ prefix
func FromConfig(cfg config.Conf) Options {
	m := cfg.Prefix("CORE_MONITOR_")
	return Options{
		PollInterval:  m.MayDuration("POLL_INTERVAL", 30*time.Second),
		BackoffBase:   m.MayDuration("BACKOFF_BASE", time.Second),
		BackoffMax:    m.MayDuration("BACKOFF_MAX", time.Minute),
		MaxReconnects: m.MayInt("MAX_RECONNECTS", 10),
		WriteTimeout:  m.MayDuration("WRITE_TIMEOUT", 10*time.Second),
	}
}
