package middleware

import (
	"net/http"

	"shoof/internal/platform/logger"
	pnet "shoof/internal/platform/net"
)

// Correlate copies the chi request id onto the logger context and echoes it back
// mount it after RequestID
func Correlate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := pnet.RequestID(r.Context())
		if id != "" {
			w.Header().Set("X-Request-ID", id)
		}
		next.ServeHTTP(w, r.WithContext(logger.WithRequest(r.Context(), id)))
	})
}
