// Package http provides http transport for stats
package http

import (
	stdhttp "net/http"

	"shoof/internal/modkit/httpkit"
	"shoof/internal/services/api/stats/domain"
	svc "shoof/internal/services/api/stats/service"
)

// Register mounts stats endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// catalog counts and latest parts
	httpkit.GetQuery[domain.SummaryInput](r, "/summary", h.summary)

	// pipeline outcomes, needs clickhouse
	httpkit.GetQuery[domain.IngestInput](r, "/ingest", h.ingest)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /stats/summary Stats statsSummary
// @Summary Catalog counts and the latest parts
// @Tags Stats
// @Produce json
// @Param recent query int false "latest parts to list, max 50"
// @Success 200 {object} domain.Summary "ok"
// @Router /stats/summary [get]
func (h *handlers) summary(r *stdhttp.Request, in domain.SummaryInput) (any, error) {
	return h.svc.Summary(r.Context(), in)
}

// swagger:route GET /stats/ingest Stats statsIngest
// @Summary Ingest outcome counts and recent import runs
// @Tags Stats
// @Produce json
// @Param hours query int false "window in hours, default 24"
// @Success 200 {object} domain.IngestStats "ok"
// @Failure 503 {object} httpkit.Envelope "audit disabled"
// @Router /stats/ingest [get]
func (h *handlers) ingest(r *stdhttp.Request, in domain.IngestInput) (any, error) {
	return h.svc.Ingest(r.Context(), in)
}
