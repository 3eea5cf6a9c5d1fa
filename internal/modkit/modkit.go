package modkit

import (
	phttp "shoof/internal/platform/net/http"
)

// Module is what every api module exposes to the binary that mounts it
type Module interface {
	// MountRoutes mounts the module's endpoints on r, already under its prefix
	MountRoutes(r phttp.Router)
	// Ports returns the module's port set for cross wiring
	Ports() any
	// Name is used in logs and the module registry
	Name() string
	// Prefix is the path the module mounts under, e.g. /catalog
	Prefix() string
}

// Mount mounts each module under its prefix on r
func Mount(r phttp.Router, mods ...Module) {
	for _, m := range mods {
		if p := m.Prefix(); p != "" && p != "/" {
			r.Route(p, m.MountRoutes)
			continue
		}
		m.MountRoutes(r)
	}
}
