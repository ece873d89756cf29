package usecase

import (
	"context"
	"sync"
	"time"

	drepo "Hikari/internal/domain/repository"
	applogger "Hikari/pkg/logger"
)

// Fetcher loads news and alerts for a holding and applies them to the Store
// only if the selection has not moved on in the meantime.
type Fetcher struct {
	store   *Store
	backend drepo.HoldingsBackend
	metrics drepo.Metrics
	log     *applogger.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewFetcher creates a Fetcher. timeout bounds each request.
func NewFetcher(store *Store, backend drepo.HoldingsBackend, metrics drepo.Metrics, l *applogger.Logger, timeout time.Duration) *Fetcher {
	if l == nil {
		l = applogger.Nop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		store:   store,
		backend: backend,
		metrics: metricsOrNop(metrics),
		log:     l.Component("fetcher"),
		timeout: timeout,
	}
}

// FetchFor issues the news and alerts requests for id concurrently and
// returns without waiting. In-flight requests are not cancelled when the
// selection changes; their results are discarded on arrival instead.
func (f *Fetcher) FetchFor(ctx context.Context, id int64) Token {
	tok := f.store.IssueToken(id)
	ctx = context.WithoutCancel(ctx)

	f.wg.Add(2)
	go func() {
		defer f.wg.Done()
		f.fetchNews(ctx, tok)
	}()
	go func() {
		defer f.wg.Done()
		f.fetchAlerts(ctx, tok)
	}()
	return tok
}

// Wait blocks until every issued fetch has been applied or dropped.
func (f *Fetcher) Wait() {
	f.wg.Wait()
}

func (f *Fetcher) fetchNews(ctx context.Context, tok Token) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	items, err := f.backend.ListNews(ctx, tok.HoldingID)
	f.metrics.RecordLatency("list_news", time.Since(start))
	f.metrics.RecordFetch(string(ResourceNews), err)
	if err != nil {
		f.log.Warn("news fetch failed",
			applogger.Int64("holding_id", tok.HoldingID),
			applogger.Error(err),
		)
		items = nil
	}
	for i := range items {
		if items[i].Sanitize() {
			f.log.Debug("sentiment score out of range dropped",
				applogger.Int64("holding_id", tok.HoldingID),
				applogger.Int64("article_id", items[i].ID),
			)
		}
	}

	if !f.store.ApplyNews(tok, items) {
		f.dropped(ResourceNews, tok)
	}
}

func (f *Fetcher) fetchAlerts(ctx context.Context, tok Token) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	items, err := f.backend.ListAlerts(ctx, tok.HoldingID)
	f.metrics.RecordLatency("list_alerts", time.Since(start))
	f.metrics.RecordFetch(string(ResourceAlerts), err)
	if err != nil {
		f.log.Warn("alerts fetch failed",
			applogger.Int64("holding_id", tok.HoldingID),
			applogger.Error(err),
		)
		items = nil
	}

	if !f.store.ApplyAlerts(tok, items) {
		f.dropped(ResourceAlerts, tok)
	}
}

func (f *Fetcher) dropped(r Resource, tok Token) {
	f.metrics.RecordStaleDrop(string(r))
	f.log.Debug("stale result dropped",
		applogger.String("resource", string(r)),
		applogger.Int64("holding_id", tok.HoldingID),
		applogger.Int64("seq", int64(tok.Seq)),
	)
}
