package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/data-service/internal/document"
	"github.com/gogotex/data-service/internal/storage"
	"github.com/stretchr/testify/require"
)

func serve(g *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	g := gin.New()
	RegisterAdminRoutes(g, AdminOptions{})

	w := serve(g, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", w.Body.String())
}

func TestReady(t *testing.T) {
	var mongoErr error
	g := gin.New()
	RegisterAdminRoutes(g, AdminOptions{Checks: map[string]Check{
		"mongo": func(context.Context) error { return mongoErr },
		"redis": nil,
	}})

	w := serve(g, http.MethodGet, "/ready")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status string          `json:"status"`
		Deps   map[string]bool `json:"deps"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "ready", body.Status)
	require.Equal(t, map[string]bool{"mongo": true, "redis": true}, body.Deps)

	mongoErr = errors.New("server selection timeout")
	w = serve(g, http.MethodGet, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "not_ready", body.Status)
	require.False(t, body.Deps["mongo"])
}

func TestMetricsAndVersion(t *testing.T) {
	g := gin.New()
	RegisterAdminRoutes(g, AdminOptions{Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "# metrics")
	})})

	w := serve(g, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "# metrics", w.Body.String())

	w = serve(g, http.MethodGet, "/version")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"version":"dev"`)
}

type memStore struct{ keys []string }

func (m *memStore) UploadFile(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	m.keys = append(m.keys, key)
	return nil
}

func (m *memStore) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "http://minio/" + key, nil
}

type staticLister []document.Document

func (s staticLister) List(context.Context) ([]document.Document, error) { return s, nil }

func TestSnapshot(t *testing.T) {
	g := gin.New()
	RegisterAdminRoutes(g, AdminOptions{})
	require.Equal(t, http.StatusServiceUnavailable, serve(g, http.MethodPost, "/snapshot").Code)

	store := &memStore{}
	g = gin.New()
	RegisterAdminRoutes(g, AdminOptions{
		Snapshotter: storage.NewSnapshotter(store, staticLister{{"a": "b"}}, time.Minute),
	})
	w := serve(g, http.MethodPost, "/snapshot")
	require.Equal(t, http.StatusCreated, w.Code)

	var snap storage.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Equal(t, 1, snap.Documents)
	require.Len(t, store.keys, 1)
	require.Equal(t, store.keys[0], snap.Key)
	require.Equal(t, "http://minio/"+snap.Key, snap.URL)
}
