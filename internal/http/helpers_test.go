package http_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	api "github.com/Hy0g0/Cadavre-exquis/internal/http"
	"github.com/Hy0g0/Cadavre-exquis/internal/queue"
	"github.com/Hy0g0/Cadavre-exquis/internal/repo"
)

type testEnv struct {
	T      *testing.T
	Store  *repo.Store
	Router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := repo.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	staticDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(staticDir, "index.html"),
		[]byte("<!DOCTYPE html><title>story</title>"), 0o644); err != nil {
		t.Fatalf("static fixture: %v", err)
	}

	// Redis nil (cache off), Noop publisher, generous burst limit.
	h := api.NewHandler(store, nil, queue.NewNoop(), "story.events")
	r := api.NewRouter(h, staticDir, 1000)

	return &testEnv{T: t, Store: store, Router: r}
}

func (e *testEnv) do(method, path, body string, cookie string) *httptest.ResponseRecorder {
	e.T.Helper()
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "story_client_id", Value: cookie})
	}
	e.Router.ServeHTTP(w, req)
	return w
}
