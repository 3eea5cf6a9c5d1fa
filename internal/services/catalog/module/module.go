// Package module wires the catalog writer and exposes its ports
package module

import (
	"shoof/internal/modkit"
	"shoof/internal/modkit/httpkit"
	"shoof/internal/services/catalog/service"
)

// Module defines the catalog write module
type Module struct {
	deps  modkit.Deps
	ports Ports
	built modkit.Built
}

// New constructs the catalog write module from env options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	o := FromConfig(deps.Cfg)
	svc := service.New(deps, service.Config{StatementTimeout: o.StatementTimeout})
	return &Module{
		deps:  deps,
		ports: Ports{Writer: svc},
		built: modkit.Build(append([]modkit.Option{modkit.WithName("catalog")}, opts...)...),
	}
}

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix is empty; the writer has no routes
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op, reads go through the catalog api module
func (m *Module) MountRoutes(_ httpkit.Router) {}
