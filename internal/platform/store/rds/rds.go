// Package rds opens a redis client for the relay source
package rds

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures the redis client
type Config struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

var newClient = func(o *redis.Options) redis.UniversalClient { return redis.NewClient(o) }

// Open builds a client and pings it once so a bad address fails at startup
func Open(ctx context.Context, cfg Config) (redis.UniversalClient, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	dial := cfg.DialTimeout
	if dial <= 0 {
		dial = 5 * time.Second
	}
	c := newClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dial,
		// XREAD BLOCK holds the connection; keep reads unbounded and rely on ctx
		ReadTimeout: -1,
	})

	pctx, cancel := context.WithTimeout(ctx, dial)
	defer cancel()
	if err := c.Ping(pctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return c, nil
}
