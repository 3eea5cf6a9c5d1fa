package main

import (
	"context"

	"shoof/internal/modkit"
	"shoof/internal/modkit/repokit"
	"shoof/internal/platform/config"
	"shoof/internal/platform/logger"
	"shoof/internal/platform/store"
)

// commandContext opens the store on first use and closes it after the command
type commandContext struct {
	jsonOut *bool
	root    config.Conf
	st      *store.Store
}

func newCommandContext(jsonOut *bool) *commandContext {
	return &commandContext{jsonOut: jsonOut, root: config.New()}
}

func (c *commandContext) json() bool { return c.jsonOut != nil && *c.jsonOut }

func (c *commandContext) ensureStore(ctx context.Context) (*store.Store, error) {
	if c.st != nil {
		return c.st, nil
	}
	st, err := store.Open(ctx, store.ConfigFromEnv(c.root, "shoofctl"), store.WithLogger(*logger.Get()))
	if err != nil {
		return nil, err
	}
	if err := repokit.Guard(ctx, "shoofctl", st); err != nil {
		_ = st.Close(context.Background())
		return nil, err
	}
	c.st = st
	return st, nil
}

func (c *commandContext) deps(ctx context.Context) (modkit.Deps, error) {
	st, err := c.ensureStore(ctx)
	if err != nil {
		return modkit.Deps{}, err
	}
	return modkit.DepsFrom(st, c.root), nil
}

func (c *commandContext) close() {
	if c.st == nil {
		return
	}
	if err := c.st.Close(context.Background()); err != nil {
		logger.Get().Warn().Err(err).Msg("failed to close store")
	}
	c.st = nil
}
