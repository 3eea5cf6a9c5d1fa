// Package version reports build information set at link time
package version

import "runtime"

// BuildInfo holds version information about a shoof binary
type BuildInfo struct {
	Service   string `json:"service" example:"shoof-api"`
	Version   string `json:"version" example:"v0.3.1"`
	Commit    string `json:"commit" example:"4f2a9c1"`
	Date      string `json:"date" example:"2025-03-02"`
	GoVersion string `json:"go_version" example:"go1.24.1"`
}

// Info returns the build information for the running binary
//
//	go build -ldflags "-X shoof/internal/core/version.service=shoof-ingest -X shoof/internal/core/version.version=v0.3.1"
func Info() BuildInfo {
	return BuildInfo{
		Service:   service,
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
	}
}

// SetService names the binary when it was not set at link time
func SetService(name string) {
	if service == "shoof" && name != "" {
		service = name
	}
}

var (
	service = "shoof"
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
