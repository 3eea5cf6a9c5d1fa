// Package module assembles the ingest pipeline from the catalog writer and the audit sink
package module

import (
	"context"
	"time"

	"shoof/internal/modkit"
	"shoof/internal/modkit/httpkit"
	"shoof/internal/modkit/module"
	auditsvc "shoof/internal/services/audit/service"
	catalogdom "shoof/internal/services/catalog/domain"
	catalogmod "shoof/internal/services/catalog/module"
	"shoof/internal/services/ingest/domain"
	"shoof/internal/services/ingest/service"
)

// Ports exposes the pipeline and the writer it upserts through
type Ports struct {
	Processor domain.ProcessorPort
	Writer    catalogdom.WriterPort
}

// Options tunes the pipeline
type Options struct {
	WriteTimeout time.Duration
}

// Module owns the catalog writer module and the audit service
type Module struct {
	built   modkit.Built
	ports   Ports
	audit   *auditsvc.Svc
	catalog *catalogmod.Module
}

// New wires catalog writer, audit sink and pipeline
func New(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	cat := catalogmod.New(deps)
	writer := module.MustPortsOf[catalogdom.WriterPort](cat)
	// a disabled audit service records nothing
	audit := auditsvc.New(deps)
	pl := service.New(writer, audit, service.Config{WriteTimeout: o.WriteTimeout})

	return &Module{
		built:   modkit.Build(append([]modkit.Option{modkit.WithName("ingest")}, opts...)...),
		ports:   Ports{Processor: pl, Writer: writer},
		audit:   audit,
		catalog: cat,
	}
}

// Prepare creates the audit table when clickhouse is enabled
func (m *Module) Prepare(ctx context.Context) error { return m.audit.EnsureSchema(ctx) }

// AuditEnabled reports whether decisions reach clickhouse
func (m *Module) AuditEnabled() bool { return m.audit.Enabled() }

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix is empty, ingest has no routes
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op
func (m *Module) MountRoutes(_ httpkit.Router) {}
