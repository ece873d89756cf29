package static

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSite(t *testing.T) (*echo.Echo, string) {
	t.Helper()
	parent := t.TempDir()
	root := filepath.Join(parent, "web")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>Hikari</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "dashboard.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "index.html"), []byte("data index"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "font.WOFF2"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.bin"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0o644))

	h, err := New(root, nil)
	require.NoError(t, err)
	e := echo.New()
	h.RegisterRoutes(e)
	return e, root
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = path
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestServe(t *testing.T) {
	e, _ := newSite(t)

	tests := []struct {
		name   string
		path   string
		status int
		ctype  string
		body   string
	}{
		{name: "root is index", path: "/", status: http.StatusOK, ctype: "text/html; charset=utf-8", body: "<h1>Hikari</h1>"},
		{name: "json", path: "/data/dashboard.json", status: http.StatusOK, ctype: "application/json; charset=utf-8", body: "{}"},
		{name: "directory index", path: "/data", status: http.StatusOK, ctype: "text/html; charset=utf-8", body: "data index"},
		{name: "extension case ignored", path: "/font.WOFF2", status: http.StatusOK, ctype: "font/woff2"},
		{name: "unknown extension", path: "/blob.bin", status: http.StatusOK, ctype: "application/octet-stream"},
		{name: "missing", path: "/nope.css", status: http.StatusNotFound, body: "Not Found"},
		{name: "traversal", path: "/../secret.txt", status: http.StatusForbidden, body: "Forbidden"},
		{name: "directory without index", path: "/empty/", status: http.StatusInternalServerError, body: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(e, tt.path)
			assert.Equal(t, tt.status, rec.Code)
			if tt.ctype != "" {
				assert.Equal(t, tt.ctype, rec.Header().Get(echo.HeaderContentType))
			}
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/svg+xml", ContentType("logo.svg"))
	assert.Equal(t, "image/jpeg", ContentType("a/b/photo.JPEG"))
	assert.Equal(t, "application/octet-stream", ContentType("Makefile"))
}
