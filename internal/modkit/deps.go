// Package modkit wires shared dependencies into modules
package modkit

import (
	"shoof/internal/modkit/repokit"
	"shoof/internal/platform/config"
	"shoof/internal/platform/logger"
	"shoof/internal/platform/store"

	"github.com/redis/go-redis/v9"
)

// Deps holds the dependencies every module may draw from
// CH and RDS are nil when their backend is disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
	RDS redis.UniversalClient
}

// DepsFrom copies the opened backends of s into Deps
func DepsFrom(s *store.Store, cfg config.Conf) Deps {
	return Deps{Log: s.Log, Cfg: cfg, PG: s.PG, CH: s.CH, RDS: s.RDS}
}
