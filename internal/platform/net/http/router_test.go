package http_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perr "shoof/internal/platform/errors"
	phttp "shoof/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type previewIn struct {
	Text string `json:"text" validate:"required"`
}

type pageIn struct {
	Limit int `query:"limit" validate:"min=0,max=50"`
}

func newRouter() phttp.Router {
	r := phttp.AdaptChi(chi.NewRouter())
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-MW", "yes")
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api", func(api phttp.Router) {
		phttp.Get(api, "/titles/{id}", func(req *http.Request) (any, error) {
			id, err := phttp.PathID(req, "id")
			if err != nil {
				return nil, err
			}
			if id == 404 {
				return nil, perr.NotFoundf("title %d not found", id)
			}
			return map[string]int64{"id": id}, nil
		})
		phttp.GetQuery(api, "/titles", func(_ *http.Request, q pageIn) (any, error) {
			return phttp.List([]int{}, phttp.Page{Limit: q.Limit}), nil
		})
		phttp.PostJSON(api, "/classify", func(_ *http.Request, in previewIn) (any, error) {
			return strings.ToUpper(in.Text), nil
		})
		api.Group(func(g phttp.Router) {
			g.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, "pong") })
		})
	})
	return r
}

func TestRouter_Endpoints(t *testing.T) {
	h := newRouter().Mux()
	cases := []struct {
		method, path, body string
		status             int
		contains           string
	}{
		{http.MethodGet, "/api/titles/12", "", 200, `"id":12`},
		{http.MethodGet, "/api/titles/abc", "", 422, `"field":"id"`},
		{http.MethodGet, "/api/titles/0", "", 422, "positive integer"},
		{http.MethodGet, "/api/titles/404", "", 404, `"code":"not_found"`},
		{http.MethodGet, "/api/titles?limit=10", "", 200, `"limit":10`},
		{http.MethodGet, "/api/titles?limit=99", "", 400, "limit must be at most 50"},
		{http.MethodPost, "/api/classify", `{"text":"abc"}`, 200, `"ABC"`},
		{http.MethodPost, "/api/classify", `{}`, 400, "text"},
		{http.MethodGet, "/api/ping", "", 200, "pong"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.status {
				t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), tc.contains) {
				t.Fatalf("body %s missing %q", rr.Body.String(), tc.contains)
			}
			if rr.Header().Get("X-MW") != "yes" {
				t.Fatal("middleware not applied")
			}
		})
	}
}

func TestMountProfiler(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	phttp.MountProfiler(r, "/debug", true)
	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("pprof status = %d", rr.Code)
	}

	off := phttp.AdaptChi(chi.NewRouter())
	phttp.MountProfiler(off, "/debug", false)
	rr = httptest.NewRecorder()
	off.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("disabled pprof status = %d", rr.Code)
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	optCalled := false
	srv := phttp.NewServer(addr, func(*chi.Mux) { optCalled = true })
	if !optCalled || srv.Addr() != addr {
		t.Fatalf("opt=%v addr=%q", optCalled, srv.Addr())
	}
	srv.Router().Get("/health", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	deadline := time.Now().Add(3 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("health = %d", resp.StatusCode)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
