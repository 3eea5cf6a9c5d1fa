// Package module wires the live monitor and exposes its worker port
package module

import (
	"shoof/internal/modkit"
	"shoof/internal/modkit/httpkit"
	ingestdom "shoof/internal/services/ingest/domain"
	"shoof/internal/services/monitor/domain"
	"shoof/internal/services/monitor/repo"
	"shoof/internal/services/monitor/service"
)

// Ports defines the monitor module ports
type Ports struct {
	Worker domain.WorkerPort
}

// Module defines the monitor module
type Module struct {
	deps  modkit.Deps
	ports Ports
	built modkit.Built
}

// New constructs the monitor; resume is usually the catalog writer
func New(
	deps modkit.Deps,
	src domain.Source,
	proc ingestdom.ProcessorPort,
	resume domain.ResumePort,
	opts ...modkit.Option,
) *Module {
	o := FromConfig(deps.Cfg)
	svc := service.New(deps.PG, repo.NewPG(), src, proc, resume, service.Config{
		BackoffBase:   o.BackoffBase,
		BackoffMax:    o.BackoffMax,
		MaxReconnects: o.MaxReconnects,
	})
	return &Module{
		deps:  deps,
		ports: Ports{Worker: svc},
		built: modkit.Build(append([]modkit.Option{modkit.WithName("monitor")}, opts...)...),
	}
}

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module prefix (none, it's a worker)
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op for the worker
func (m *Module) MountRoutes(_ httpkit.Router) {}
