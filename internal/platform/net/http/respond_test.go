package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "shoof/internal/platform/errors"
	pnet "shoof/internal/platform/net"
	phttp "shoof/internal/platform/net/http"
)

func decode(t *testing.T, rr *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rr.Body.String())
	}
	return env
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandle_OKCarriesRequestID(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response { return phttp.OK(map[string]int{"n": 1}) })
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(pnet.WithRequestID(req.Context(), "rid-9"))

	rr := serve(h, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	env := decode(t, rr)
	if env.RequestID != "rid-9" || env.Status != "OK" || env.Data == nil {
		t.Fatalf("env = %+v", env)
	}
}

func TestHandle_ErrorMapsCode(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Error(perr.WithField(perr.NotFoundf("title 7 not found"), "id"))
	})
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	env := decode(t, rr)
	if env.Code != perr.ErrorCodeNotFound || env.Error != "title 7 not found" || env.Field != "id" || env.Data != nil {
		t.Fatalf("env = %+v", env)
	}
}

func TestHandle_PlainErrorIs500(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response { return phttp.Error(errors.New("boom")) })
	if rr := serve(h, httptest.NewRequest(http.MethodGet, "/", nil)); rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestHandle_NoContentAndHeaders(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response {
		r := phttp.NoContent()
		r.Header = http.Header{"X-Total": {"3"}}
		return r
	})
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusNoContent || rr.Body.Len() != 0 || rr.Header().Get("X-Total") != "3" {
		t.Fatalf("code=%d body=%q hdr=%v", rr.Code, rr.Body.String(), rr.Header())
	}
}

func TestList_WritesPage(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.List([]string{"a", "b"}, phttp.Page{Total: 12, Limit: 2, Offset: 4})
	})
	env := decode(t, serve(h, httptest.NewRequest(http.MethodGet, "/", nil)))
	if env.Page == nil || env.Page.Total != 12 || env.Page.Offset != 4 {
		t.Fatalf("page = %+v", env.Page)
	}
}

func TestRespondHelpers(t *testing.T) {
	rr := httptest.NewRecorder()
	phttp.RespondError(rr, httptest.NewRequest(http.MethodGet, "/", nil), perr.Unavailablef("clickhouse disabled"))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	phttp.RespondOK(rr, httptest.NewRequest(http.MethodGet, "/", nil), "pong")
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "application/json; charset=utf-8" {
		t.Fatalf("code=%d ct=%q", rr.Code, rr.Header().Get("Content-Type"))
	}
}
