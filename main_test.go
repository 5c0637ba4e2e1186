package main

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gogotex/data-service/internal/config"
	"github.com/gogotex/data-service/internal/document/service"
	"github.com/stretchr/testify/require"
)

func TestPublicRouterExposesOnlyDataRoutes(t *testing.T) {
	cfg := &config.Config{}
	r := newPublicRouter(cfg, service.NewMemoryService(), nil)

	var got []string
	for _, rt := range r.Routes() {
		got = append(got, rt.Method+" "+rt.Path)
	}
	sort.Strings(got)
	require.Equal(t, []string{"GET /", "GET /data", "POST /data"}, got)
}

func TestPublicRouterEndToEnd(t *testing.T) {
	cfg := &config.Config{}
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 100, Burst: 100}
	r := newPublicRouter(cfg, service.NewMemoryService(), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/data", strings.NewReader(`{"hello":"world"}`)))
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[{"hello":"world"}]`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/data", nil))
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)

	for _, m := range []string{http.MethodGet, http.MethodPost} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(m, "/data/", strings.NewReader(`{"a":1}`)))
		require.Equal(t, http.StatusNotFound, w.Code, m)
		require.Empty(t, w.Header().Get("Location"))
	}
}
