package di

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"Hikari/internal/service/events"
	"Hikari/internal/usecase"
	"Hikari/pkg/cache"
	"Hikari/pkg/config"
	applogger "Hikari/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Log.Output = "stderr"
	cfg.Log.Level = "error"
	return cfg
}

func TestInitializeDashboardReadsFileSource(t *testing.T) {
	cfg := testConfig(t)
	raw, err := json.Marshal(usecase.CanonicalSnapshot())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "dashboard.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	cfg.Dashboard.Source = path

	loader, err := InitializeDashboard(cfg)
	require.NoError(t, err)

	out := loader.Load(context.Background())
	assert.False(t, out.Degraded)
	assert.Equal(t, "success", string(loader.Status().Level))
}

func TestInitializeDashboardFallsBackOnMissingFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dashboard.Source = filepath.Join(t.TempDir(), "absent.json")

	loader, err := InitializeDashboard(cfg)
	require.NoError(t, err)

	out := loader.Load(context.Background())
	assert.True(t, out.Degraded)
	assert.Equal(t, "transport", out.Reason)
	assert.Len(t, loader.Snapshot().Watchlist, 10)
}

func TestProvideEventPublisherDisabled(t *testing.T) {
	cfg := testConfig(t)
	pub, err := ProvideEventPublisher(cfg, ProvideRegistry(), applogger.Nop())
	require.NoError(t, err)
	assert.IsType(t, events.Noop{}, pub)
}

func TestProvideCacheMemory(t *testing.T) {
	c, err := ProvideCache(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	assert.IsType(t, &cache.MemoryCache{}, c)
}

func TestProvideHTTPServerRoutes(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.StaticDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Server.StaticDir, "index.html"), []byte("<h1>hikari</h1>"), 0o644))

	l := applogger.Nop()
	reg := ProvideRegistry()
	m := ProvideMetrics(reg)
	store := ProvideStore()
	c, err := ProvideCache(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	backend := ProvideHoldingsBackend(cfg, c, l)
	fetcher := ProvideFetcher(store, backend, m, l, cfg)
	sched := ProvideScheduler(cfg, store, backend, fetcher, m, events.Noop{}, l)
	hs := ProvideHoldingsSync(store, backend, sched, fetcher, m, events.Noop{}, l)
	loader := ProvideDashboardLoader(cfg, nil, m, events.Noop{}, l)
	loader.Load(context.Background())

	srv, err := ProvideHTTPServer(cfg, l, reg, store, hs, loader)
	require.NoError(t, err)

	cases := []struct {
		path string
		code int
	}{
		{"/healthz", http.StatusOK},
		{"/", http.StatusOK},
		{"/api/dashboard", http.StatusOK},
		{"/api/holdings", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/missing.css", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}
