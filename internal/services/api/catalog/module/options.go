package module

import (
	"time"

	"shoof/internal/platform/config"
	"shoof/internal/services/api/catalog/domain"
)

// Options controls the catalog api
type Options struct {
	DefaultSort  domain.Sort
	RowSize      int
	ChannelURL   string
	QueryTimeout time.Duration
}

// FromConfig reads options using the CORE_CATALOG_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_CATALOG_")
	return Options{
		DefaultSort:  domain.Sort(c.MayEnum("DEFAULT_SORT", string(domain.SortInsertion), "insertion", "alphabetical", "recent")),
		RowSize:      c.MayInt("ROW_SIZE", 5),
		ChannelURL:   c.MayURL("CHANNEL_URL", "https://t.me/ShoofFilm"),
		QueryTimeout: c.MayDuration("QUERY_TIMEOUT", 5*time.Second),
	}
}
