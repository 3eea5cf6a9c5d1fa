//go:build !swag

package swaggerkit

import (
	"encoding/json"
	"net/http"

	"shoof/internal/core/version"
)

// skeletonPaths lists the routes so the UI has something to show without generated docs
var skeletonPaths = map[string]string{
	"/catalog/titles":            "get",
	"/catalog/titles/{id}":       "get",
	"/catalog/titles/{id}/parts": "get",
	"/catalog/parts/{id}":        "get",
	"/catalog/classify":          "post",
	"/stats/summary":             "get",
	"/stats/ingest":              "get",
	"/meta/health":               "get",
	"/meta/ready":                "get",
	"/meta/version":              "get",
	"/meta/service":              "get",
}

var docReader = func() string {
	paths := map[string]any{}
	for p, method := range skeletonPaths {
		paths[p] = map[string]any{method: map[string]any{
			"responses": map[string]any{"200": map[string]any{"description": "OK"}},
		}}
	}
	b, _ := json.Marshal(map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": "shoof catalog API", "version": version.Info().Version},
		"servers": []any{map[string]any{"url": "/api/v1"}},
		"paths":   paths,
	})
	return string(b)
}

// serveDocJSON (no-swag build) serves the skeleton so the UI can still load
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(docReader()))
	}
}
