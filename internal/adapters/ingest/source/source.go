// Package source picks the configured channel source
package source

import (
	"time"

	"shoof/internal/adapters/ingest/channel"
	"shoof/internal/adapters/ingest/relay"
	"shoof/internal/adapters/ingest/telegram"
	"shoof/internal/platform/config"
	perr "shoof/internal/platform/errors"

	"github.com/redis/go-redis/v9"
)

// Kinds of source
const (
	KindTelegram = "telegram"
	KindRelay    = "relay"
)

// Options selects and tunes the source
type Options struct {
	Kind    string
	Channel string

	// telegram
	BaseURL    string
	MaxRetries int

	// relay
	Stream string
}

// FromConfig reads CORE_SOURCE_* and SERVICE_REDIS_STREAM
func FromConfig(cfg config.Conf) Options {
	s := cfg.Prefix("CORE_SOURCE_")
	return Options{
		Kind:       s.MayEnum("KIND", KindTelegram, KindTelegram, KindRelay),
		Channel:    s.MayString("CHANNEL", "ShoofFilm"),
		BaseURL:    s.MayURL("BASE_URL", "https://t.me"),
		MaxRetries: s.MayInt("MAX_RETRIES", 3),
		Stream:     cfg.Prefix("SERVICE_REDIS_").MayString("STREAM", ""),
	}
}

// Open builds the source; rdb is required for the relay kind and poll paces telegram
func Open(o Options, rdb redis.UniversalClient, poll time.Duration) (channel.Source, error) {
	switch o.Kind {
	case KindTelegram, "":
		c := telegram.NewClient(telegram.Options{BaseURL: o.BaseURL, MaxRetries: o.MaxRetries})
		return telegram.NewSource(c, o.Channel, poll), nil
	case KindRelay:
		return OpenRelay(o, rdb)
	default:
		return nil, perr.WithField(perr.InvalidArgf("unknown source kind %q", o.Kind), "kind")
	}
}

// OpenRelay builds the relay source directly, for publishers
func OpenRelay(o Options, rdb redis.UniversalClient) (*relay.Relay, error) {
	if rdb == nil {
		return nil, perr.Unavailablef("relay source needs redis, set SERVICE_REDIS_ENABLED")
	}
	return relay.New(rdb, o.Channel, relay.Options{Stream: o.Stream}), nil
}
