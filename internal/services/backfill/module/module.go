// Package module wires the channel history importer
package module

import (
	"shoof/internal/modkit"
	"shoof/internal/modkit/httpkit"
	"shoof/internal/services/backfill/domain"
	"shoof/internal/services/backfill/repo"
	"shoof/internal/services/backfill/service"
	ingestdom "shoof/internal/services/ingest/domain"
)

// Ports defines the backfill module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the backfill module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
	built modkit.Built
}

// New constructs the backfill module reading CORE_BACKFILL_* from deps.Cfg
// src is the channel to import and proc the shared ingest pipeline; no routes are mounted
func New(deps modkit.Deps, src service.Source, proc ingestdom.ProcessorPort, opts ...modkit.Option) *Module {
	o := FromConfig(deps.Cfg)

	svc := service.New(
		deps.PG, repo.NewPG(),
		src, proc,
		service.Config{
			MaxRetries:   o.MaxRetries,
			RetryBase:    o.RetryBase,
			FetchTimeout: o.FetchTimeout,
			RunTimeout:   o.RunTimeout,
			EnableLeases: o.EnableLeases,
			LeaseTTL:     o.LeaseTTL,
		},
	)

	return &Module{
		deps:  deps,
		opts:  o,
		ports: Ports{Runner: svc},
		built: modkit.Build(append([]modkit.Option{modkit.WithName("backfill")}, opts...)...),
	}
}

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Options returns the resolved options, including the startup window
func (m *Module) Options() Options { return m.opts }

// Prefix returns the module prefix (none)
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op as backfill has no routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
