// Package api provides the HTTP API for the application
package api

import (
	"time"

	"shoof/internal/platform/config"
	"shoof/internal/platform/logger"
	phttp "shoof/internal/platform/net/http"
	"shoof/internal/platform/store"

	"shoof/internal/modkit"
	"shoof/internal/modkit/httpkit"
	"shoof/internal/modkit/module"
	"shoof/internal/modkit/swaggerkit"

	catalogmod "shoof/internal/services/api/catalog/module"
	metamod "shoof/internal/services/api/meta/module"
	statsdom "shoof/internal/services/api/stats/domain"
	statsmod "shoof/internal/services/api/stats/module"
	auditdom "shoof/internal/services/audit/domain"
	auditsvc "shoof/internal/services/audit/service"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool

	// middleware stack
	Origins        []string
	RequestTimeout time.Duration
	SlowRequest    time.Duration
}

// OptionsFromConfig reads the http knobs under the SERVICE_API_ prefix
func OptionsFromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("SERVICE_API_")
	return Options{
		Config:         cfg,
		EnableSwagger:  c.MayBool("SWAGGER", true),
		EnableProfiler: c.MayBool("PROFILER", false),
		Origins:        c.MayCSV("CORS_ORIGINS", nil),
		RequestTimeout: c.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		SlowRequest:    c.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
	}
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.DepsFrom(opt.Store, opt.Config)

	// catalog first, stats borrows its deep link port
	catalog := catalogmod.New(deps)
	links := module.MustPortsOf[statsdom.Linker](catalog)

	audit := auditsvc.New(deps)
	var reader auditdom.ReaderPort
	if audit.Enabled() {
		reader = audit
	}

	mods := []modkit.Module{
		metamod.New(deps),
		catalog,
		statsmod.New(deps, reader, modkit.WithPorts(links)),
	}

	// Swagger + profiler
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	stack := httpkit.CommonStack(httpkit.StackOptions{
		Origins: opt.Origins,
		Timeout: opt.RequestTimeout,
		Slow:    opt.SlowRequest,
	})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name for cross module lookups
			module.Register(m.Name(), m.Ports())
		}
		modkit.Mount(api, mods...)
	})

	if opt.Logger != nil {
		opt.Logger.Info().Strs("modules", module.Names()).Bool("swagger", opt.EnableSwagger).Msg("api mounted")
	}
}
