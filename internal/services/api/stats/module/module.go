// Package module wires stats into the API using modkit
package module

import (
	"net/http"

	modkit "shoof/internal/modkit"
	"shoof/internal/modkit/httpkit"
	str "shoof/internal/platform/strings"
	statsdom "shoof/internal/services/api/stats/domain"
	statshttp "shoof/internal/services/api/stats/http"
	statsrepo "shoof/internal/services/api/stats/repo"
	statssvc "shoof/internal/services/api/stats/service"
	auditdom "shoof/internal/services/audit/domain"
)

// Module implements the stats module
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	svc statssvc.Service
}

var _ modkit.Module = (*Module)(nil)

// New constructs the stats module
// audit may be nil; a Linker passed with modkit.WithPorts fills deep links
func New(deps modkit.Deps, audit auditdom.ReaderPort, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("stats"), modkit.WithPrefix("/stats")}, opts...)...)
	links, _ := b.Ports.(statsdom.Linker)

	return &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    statssvc.New(deps.PG, statsrepo.NewPG(), audit, links),
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	for _, mw := range m.mws {
		r.Use(mw)
	}
	statshttp.Register(r, m.svc)
}

// Ports returns the stats service port
func (m *Module) Ports() any { return statsdom.ServicePort(m.svc) }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
