package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"shoof/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Origins []string      // CORS origins, empty allows any
	Timeout time.Duration // per request, default 30s
	Slow    time.Duration // access log warn threshold, default 500ms
}

// CommonStack is the root middleware chain every api binary mounts
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Slow <= 0 {
		o.Slow = 500 * time.Millisecond
	}
	return []func(http.Handler) http.Handler{
		middleware.Heartbeat("/health"),
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.Correlate,
		middleware.RecoverJSON,
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.Origins, MaxAge: 300}),
		middleware.NoCache(),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}
