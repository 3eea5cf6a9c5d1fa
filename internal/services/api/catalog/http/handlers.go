// Package http provides http transport for the catalog api
package http

import (
	stdhttp "net/http"

	"shoof/internal/modkit/httpkit"
	"shoof/internal/services/api/catalog/domain"
	svc "shoof/internal/services/api/catalog/service"
)

// Register mounts catalog endpoints on the given router
func Register(r httpkit.Router, s *svc.Service) {
	h := &handlers{svc: s}

	// titles, paged
	httpkit.GetQuery[domain.ListTitlesInput](r, "/titles", h.listTitles)
	httpkit.Get(r, "/titles/{id}", h.getTitle)

	// parts of one title grouped by season
	httpkit.GetQuery[domain.PartsInput](r, "/titles/{id}/parts", h.listParts)
	httpkit.Get(r, "/parts/{id}", h.getPart)

	// dry run of the ingest classifier
	httpkit.PostJSON[domain.ClassifyInput](r, "/classify", h.classify)
}

type handlers struct{ svc *svc.Service }

// swagger:route GET /catalog/titles Catalog catalogListTitles
// @Summary List titles with part counts
// @Tags Catalog
// @Produce json
// @Param sort query string false "insertion, alphabetical or recent"
// @Param kind query string false "series or movie"
// @Param limit query int false "page size, max 1000"
// @Param offset query int false "rows to skip"
// @Success 200 {array} domain.TitleSummary "ok"
// @Router /catalog/titles [get]
func (h *handlers) listTitles(r *stdhttp.Request, in domain.ListTitlesInput) (any, error) {
	page, err := h.svc.ListTitles(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.List(page.Items, httpkit.Page{Total: page.Total, Limit: page.Limit, Offset: page.Offset}), nil
}

// swagger:route GET /catalog/titles/{id} Catalog catalogGetTitle
// @Summary Get one title
// @Tags Catalog
// @Produce json
// @Param id path int true "title id"
// @Success 200 {object} domain.TitleSummary "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /catalog/titles/{id} [get]
func (h *handlers) getTitle(r *stdhttp.Request) (any, error) {
	id, err := httpkit.PathID(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.GetTitle(r.Context(), id)
}

// swagger:route GET /catalog/titles/{id}/parts Catalog catalogListParts
// @Summary List a title's parts grouped by season
// @Description each season also carries its parts split into rows of row_size
// @Tags Catalog
// @Produce json
// @Param id path int true "title id"
// @Param row_size query int false "parts per row, default 5"
// @Success 200 {object} domain.TitleParts "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /catalog/titles/{id}/parts [get]
func (h *handlers) listParts(r *stdhttp.Request, in domain.PartsInput) (any, error) {
	id, err := httpkit.PathID(r, "id")
	if err != nil {
		return nil, err
	}
	tp, err := h.svc.ListParts(r.Context(), id)
	if err != nil {
		return nil, err
	}
	size := in.RowSize
	if size <= 0 {
		size = h.svc.RowSize()
	}
	for i := range tp.Seasons {
		tp.Seasons[i].Grid = tp.Seasons[i].Rows(size)
	}
	return tp, nil
}

// swagger:route GET /catalog/parts/{id} Catalog catalogGetPart
// @Summary Get one part with its deep link
// @Tags Catalog
// @Produce json
// @Param id path int true "part id"
// @Success 200 {object} domain.PartView "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /catalog/parts/{id} [get]
func (h *handlers) getPart(r *stdhttp.Request) (any, error) {
	id, err := httpkit.PathID(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.GetPart(r.Context(), id)
}

// swagger:route POST /catalog/classify Catalog catalogClassify
// @Summary Classify a post without storing it
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body domain.ClassifyInput true "Post text"
// @Success 200 {object} domain.ClassifyOutput "ok"
// @Router /catalog/classify [post]
func (h *handlers) classify(r *stdhttp.Request, in domain.ClassifyInput) (any, error) {
	return h.svc.Classify(r.Context(), in)
}
