package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"Hikari/internal/domain/models"
	xhttp "Hikari/pkg/http"

	"github.com/shopspring/decimal"
)

func ptr[T any](v T) *T { return &v }

func holding(id int64, symbol string) models.Holding {
	return models.Holding{
		ID:          id,
		Symbol:      symbol,
		CompanyName: symbol + " Inc.",
		Shares:      decimal.NewFromInt(10),
		AverageCost: decimal.NewFromFloat(100.5),
		LatestQuote: &models.PriceQuote{ID: id, Price: decimal.NewFromFloat(110), ChangePercent: 1.2},
	}
}

type fakeBackend struct {
	mu sync.Mutex

	holdings  []models.Holding
	listErr   error
	listCalls int

	news      map[int64][]models.NewsArticle
	alerts    map[int64][]models.Alert
	newsErr   error
	alertsErr error
	gates     map[int64]chan struct{}

	createErr error
	updateErr error
	deleteErr error
	created   []models.CreateHoldingRequest
	nextID    int64
}

func newFakeBackend(items ...models.Holding) *fakeBackend {
	return &fakeBackend{
		holdings: items,
		news:     make(map[int64][]models.NewsArticle),
		alerts:   make(map[int64][]models.Alert),
		gates:    make(map[int64]chan struct{}),
		nextID:   100,
	}
}

func (f *fakeBackend) setListErr(err error) {
	f.mu.Lock()
	f.listErr = err
	f.mu.Unlock()
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// gate blocks news and alerts for id until the returned channel is closed.
func (f *fakeBackend) gate(id int64) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[id] = ch
	return ch
}

func (f *fakeBackend) wait(ctx context.Context, id int64) error {
	f.mu.Lock()
	ch := f.gates[id]
	f.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeBackend) ListHoldings(_ context.Context) ([]models.Holding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Holding, len(f.holdings))
	copy(out, f.holdings)
	return out, nil
}

func (f *fakeBackend) CreateHolding(_ context.Context, req models.CreateHoldingRequest) (models.Holding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.Holding{}, f.createErr
	}
	for _, h := range f.holdings {
		if h.Symbol == req.Symbol {
			return models.Holding{}, &xhttp.StatusError{Code: http.StatusBadRequest, Detail: models.MessageDuplicateSymbol}
		}
	}
	f.created = append(f.created, req)
	f.nextID++
	h := models.Holding{
		ID:          f.nextID,
		Symbol:      req.Symbol,
		CompanyName: req.CompanyName,
		Shares:      req.Shares,
		AverageCost: req.AverageCost,
		Memo:        req.Memo,
	}
	f.holdings = append(f.holdings, h)
	return h, nil
}

func (f *fakeBackend) UpdateHolding(_ context.Context, id int64, req models.UpdateHoldingRequest) (models.Holding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return models.Holding{}, f.updateErr
	}
	for i := range f.holdings {
		if f.holdings[i].ID == id {
			f.holdings[i].Memo = req.Memo
			return f.holdings[i].Clone(), nil
		}
	}
	return models.Holding{}, &xhttp.StatusError{Code: http.StatusNotFound, Detail: models.MessageHoldingNotFound}
}

func (f *fakeBackend) DeleteHolding(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.holdings {
		if f.holdings[i].ID == id {
			f.holdings = append(f.holdings[:i], f.holdings[i+1:]...)
			return nil
		}
	}
	return &xhttp.StatusError{Code: http.StatusNotFound, Detail: models.MessageHoldingNotFound}
}

func (f *fakeBackend) ListNews(ctx context.Context, id int64) ([]models.NewsArticle, error) {
	if err := f.wait(ctx, id); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.newsErr != nil {
		return nil, f.newsErr
	}
	return append([]models.NewsArticle{}, f.news[id]...), nil
}

func (f *fakeBackend) ListAlerts(ctx context.Context, id int64) ([]models.Alert, error) {
	if err := f.wait(ctx, id); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.alertsErr != nil {
		return nil, f.alertsErr
	}
	return append([]models.Alert{}, f.alerts[id]...), nil
}

type fakeMetrics struct {
	mu         sync.Mutex
	staleDrops map[string]int
	refreshes  map[string]int
	fallbacks  map[string]int
	mutations  map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		staleDrops: map[string]int{},
		refreshes:  map[string]int{},
		fallbacks:  map[string]int{},
		mutations:  map[string]int{},
	}
}

func (m *fakeMetrics) RecordRefresh(trigger string, err error, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes[trigger+"/"+result(err)]++
}

func (m *fakeMetrics) RecordFetch(string, error) {}

func (m *fakeMetrics) RecordStaleDrop(resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staleDrops[resource]++
}

func (m *fakeMetrics) RecordDashboardLoad(degraded bool, reason string) {
	if !degraded {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks[reason]++
}

func (m *fakeMetrics) RecordMutation(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations[op+"/"+result(err)]++
}

func (m *fakeMetrics) RecordLatency(string, time.Duration) {}

func (m *fakeMetrics) drops(resource string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.staleDrops[resource]
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.SyncEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e models.SyncEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) kinds() []models.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventKind, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

var errBackendDown = errors.New("backend down")
