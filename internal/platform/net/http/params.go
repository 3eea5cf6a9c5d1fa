package http

import (
	"net/http"
	"strconv"

	perr "shoof/internal/platform/errors"

	"github.com/go-chi/chi/v5"
)

// PathID parses a positive int64 path parameter such as {id}
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, perr.WithField(perr.InvalidArgf("%s must be a positive integer", name), name)
	}
	return id, nil
}
