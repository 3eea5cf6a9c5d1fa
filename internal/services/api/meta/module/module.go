// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"context"
	"net/http"
	"time"

	"shoof/internal/core/version"
	modkit "shoof/internal/modkit"
	"shoof/internal/modkit/httpkit"
	"shoof/internal/platform/store"
	str "shoof/internal/platform/strings"

	metahttp "shoof/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	deps   metahttp.Deps
}

var _ modkit.Module = (*Module)(nil)

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	d := metahttp.Deps{
		ServiceName: version.Info().Service,
		StartedAt:   time.Now(),
	}
	if deps.PG != nil {
		if p, ok := deps.PG.(store.Pinger); ok {
			d.PG = p.Ping
		}
	}
	if p, ok := deps.CH.(store.Pinger); ok {
		d.CH = p.Ping
	}
	if deps.RDS != nil {
		rds := deps.RDS
		d.RDS = func(ctx context.Context) error { return rds.Ping(ctx).Err() }
	}

	return &Module{name: b.Name, prefix: b.Prefix, mws: b.Mw, deps: d}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	for _, mw := range m.mws {
		r.Use(mw)
	}
	metahttp.Register(r, m.deps)
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
