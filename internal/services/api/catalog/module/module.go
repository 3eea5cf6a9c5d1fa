// Package module wires the catalog query api using modkit
package module

import (
	"shoof/internal/modkit"
	"shoof/internal/modkit/httpkit"
	cataloghttp "shoof/internal/services/api/catalog/http"
	catalogrepo "shoof/internal/services/api/catalog/repo"
	catalogsvc "shoof/internal/services/api/catalog/service"
)

// Ports exposes the query service to other modules
type Ports struct {
	Query *catalogsvc.Service
}

// Module implements the catalog api module
type Module struct {
	built modkit.Built
	svc   *catalogsvc.Service
}

var _ modkit.Module = (*Module)(nil)

// New constructs the catalog api module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("catalog-api"), modkit.WithPrefix("/catalog")}, opts...)...)
	o := FromConfig(deps.Cfg)
	svc := catalogsvc.New(deps.PG, catalogrepo.NewPG(), catalogsvc.Config{
		DefaultSort:  o.DefaultSort,
		ChannelURL:   o.ChannelURL,
		RowSize:      o.RowSize,
		QueryTimeout: o.QueryTimeout,
	})
	return &Module{built: b, svc: svc}
}

// MountRoutes mounts the catalog endpoints under the module middleware
func (m *Module) MountRoutes(r httpkit.Router) {
	if len(m.built.Mw) > 0 {
		r.Use(m.built.Mw...)
	}
	cataloghttp.Register(r, m.svc)
}

// Ports returns the module ports
func (m *Module) Ports() any { return Ports{Query: m.svc} }

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.built.Prefix }
