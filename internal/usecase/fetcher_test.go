package usecase

import (
	"context"
	"testing"
	"time"

	"Hikari/internal/domain/models"
	applogger "Hikari/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFetcherFixture() (*Store, *fakeBackend, *fakeMetrics, *Fetcher) {
	store := NewStore()
	backend := newFakeBackend(holding(1, "AAPL"), holding(2, "MSFT"))
	backend.news[1] = []models.NewsArticle{{ID: 11, Headline: "Apple news"}}
	backend.news[2] = []models.NewsArticle{{ID: 21, Headline: "Microsoft news"}}
	backend.alerts[1] = []models.Alert{{ID: 12, Title: "Apple alert", Severity: models.SeverityInfo}}
	backend.alerts[2] = []models.Alert{{ID: 22, Title: "Microsoft alert", Severity: models.SeverityCritical}}
	metrics := newFakeMetrics()
	f := NewFetcher(store, backend, metrics, applogger.Nop(), time.Second)
	return store, backend, metrics, f
}

func TestFetcherAppliesCurrentSelection(t *testing.T) {
	store, _, _, f := newFetcherFixture()
	ctx := context.Background()

	store.SetSelection(ptr(int64(1)))
	f.FetchFor(ctx, 1)
	f.Wait()

	st := store.State()
	require.Len(t, st.News, 1)
	assert.Equal(t, "Apple news", st.News[0].Headline)
	require.Len(t, st.Alerts, 1)
	assert.Equal(t, "Apple alert", st.Alerts[0].Title)
}

func TestFetcherDiscardsResultsForPreviousSelection(t *testing.T) {
	store, backend, metrics, f := newFetcherFixture()
	ctx := context.Background()

	gate := backend.gate(1)

	store.SetSelection(ptr(int64(1)))
	f.FetchFor(ctx, 1)

	store.SetSelection(ptr(int64(2)))
	f.FetchFor(ctx, 2)

	assert.Eventually(t, func() bool {
		st := store.State()
		return len(st.News) == 1 && len(st.Alerts) == 1
	}, time.Second, 5*time.Millisecond)

	close(gate)
	f.Wait()

	st := store.State()
	require.Len(t, st.News, 1)
	assert.Equal(t, int64(21), st.News[0].ID)
	require.Len(t, st.Alerts, 1)
	assert.Equal(t, int64(22), st.Alerts[0].ID)
	assert.Equal(t, 1, metrics.drops("news"))
	assert.Equal(t, 1, metrics.drops("alerts"))
}

func TestFetcherFailuresAreIndependent(t *testing.T) {
	store, backend, _, f := newFetcherFixture()
	ctx := context.Background()

	store.SetSelection(ptr(int64(1)))
	f.FetchFor(ctx, 1)
	f.Wait()
	require.Len(t, store.State().News, 1)

	backend.mu.Lock()
	backend.newsErr = errBackendDown
	backend.mu.Unlock()

	f.FetchFor(ctx, 1)
	f.Wait()

	st := store.State()
	assert.Empty(t, st.News, "a failed fetch clears, never keeps stale news")
	assert.Len(t, st.Alerts, 1)
}

func TestFetcherMissingHoldingIsEmptyState(t *testing.T) {
	store, _, metrics, f := newFetcherFixture()

	store.SetSelection(ptr(int64(404)))
	f.FetchFor(context.Background(), 404)
	f.Wait()

	st := store.State()
	assert.Empty(t, st.News)
	assert.Empty(t, st.Alerts)
	assert.False(t, store.Stale(ResourceNews))
	assert.Equal(t, 0, metrics.drops("news"))
}

func TestFetcherDropsOutOfRangeSentiment(t *testing.T) {
	store, backend, _, f := newFetcherFixture()
	backend.news[1] = []models.NewsArticle{
		{ID: 1, SentimentScore: ptr(0.42)},
		{ID: 2, SentimentScore: ptr(1.7)},
		{ID: 3, SentimentScore: ptr(-1.0)},
	}

	store.SetSelection(ptr(int64(1)))
	f.FetchFor(context.Background(), 1)
	f.Wait()

	news := store.State().News
	require.Len(t, news, 3)
	assert.InDelta(t, 0.42, *news[0].SentimentScore, 1e-9)
	assert.Nil(t, news[1].SentimentScore)
	assert.InDelta(t, -1.0, *news[2].SentimentScore, 1e-9)
}

func TestFetcherIgnoresCallerCancellation(t *testing.T) {
	store, _, _, f := newFetcherFixture()
	ctx, cancel := context.WithCancel(context.Background())

	store.SetSelection(ptr(int64(2)))
	f.FetchFor(ctx, 2)
	cancel()
	f.Wait()

	assert.Len(t, store.State().News, 1)
}
