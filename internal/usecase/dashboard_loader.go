package usecase

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"Hikari/internal/domain/models"
	drepo "Hikari/internal/domain/repository"
	applogger "Hikari/pkg/logger"
)

//go:embed data/canonical_dashboard.json
var canonicalDashboard []byte

// CanonicalSnapshot returns a freshly decoded copy of the embedded dataset.
func CanonicalSnapshot() *models.DashboardSnapshot {
	snap, err := models.DecodeSnapshot(canonicalDashboard)
	if err != nil {
		panic(fmt.Sprintf("embedded dashboard dataset: %v", err))
	}
	return snap
}

// LoadOutcome describes which snapshot a load installed.
type LoadOutcome struct {
	Degraded bool
	Reason   string
	Err      error
}

type dashboardState struct {
	snap   *models.DashboardSnapshot
	status models.Status
}

// DashboardLoader owns the single active dashboard snapshot and substitutes
// the canonical dataset when the live source fails.
type DashboardLoader struct {
	source    drepo.SnapshotSource
	metrics   drepo.Metrics
	publisher drepo.EventPublisher
	log       *applogger.Logger
	timeout   time.Duration

	loadMu  sync.Mutex
	current atomic.Pointer[dashboardState]

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

// NewDashboardLoader starts in the loading state with no snapshot installed.
func NewDashboardLoader(source drepo.SnapshotSource, metrics drepo.Metrics, publisher drepo.EventPublisher, l *applogger.Logger, timeout time.Duration) *DashboardLoader {
	if l == nil {
		l = applogger.Nop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	d := &DashboardLoader{
		source:    source,
		metrics:   metricsOrNop(metrics),
		publisher: publisher,
		log:       l.Component("dashboard"),
		timeout:   timeout,
		subs:      make(map[int]chan struct{}),
	}
	d.current.Store(&dashboardState{
		status: models.Status{Level: models.StatusLoading, Message: models.MessageLoading},
	})
	return d
}

// Load fetches the live snapshot and installs it, or installs the canonical
// dataset on any failure. The most recent call wins.
func (d *DashboardLoader) Load(ctx context.Context) LoadOutcome {
	d.loadMu.Lock()
	defer d.loadMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	snap, reason, err := d.fetch(ctx)
	d.metrics.RecordLatency("load_dashboard", time.Since(start))

	if err != nil {
		d.log.Warn("live dashboard unavailable, using canonical dataset",
			applogger.String("source", d.sourceName()),
			applogger.String("reason", reason),
			applogger.Error(err),
		)
		d.install(CanonicalSnapshot(), models.Status{Level: models.StatusWarning, Message: models.MessageFallback})
		d.metrics.RecordDashboardLoad(true, reason)
		d.publish(ctx, models.SyncEvent{Kind: models.EventDashboardFallback, Detail: reason})
		return LoadOutcome{Degraded: true, Reason: reason, Err: err}
	}

	d.install(snap, models.Status{Level: models.StatusSuccess, Message: models.MessageLive})
	d.metrics.RecordDashboardLoad(false, "")
	d.log.Info("live dashboard loaded",
		applogger.String("source", d.sourceName()),
		applogger.Int("watchlist", len(snap.Watchlist)),
	)
	d.publish(ctx, models.SyncEvent{Kind: models.EventDashboardLoaded, Count: len(snap.Watchlist)})
	return LoadOutcome{}
}

// Recover installs the canonical dataset after an initialization failure.
func (d *DashboardLoader) Recover(cause error) LoadOutcome {
	d.loadMu.Lock()
	defer d.loadMu.Unlock()

	d.log.Error("dashboard initialization failed", applogger.Error(cause))
	d.install(CanonicalSnapshot(), models.Status{Level: models.StatusWarning, Message: models.MessageInitFailed})
	d.metrics.RecordDashboardLoad(true, "init")
	return LoadOutcome{Degraded: true, Reason: "init", Err: cause}
}

// Snapshot returns the active snapshot, nil before the first load. Callers
// must treat it as read-only.
func (d *DashboardLoader) Snapshot() *models.DashboardSnapshot {
	return d.current.Load().snap
}

// Status returns the status of the active snapshot.
func (d *DashboardLoader) Status() models.Status {
	return d.current.Load().status
}

// View derives the dashboard view for f from the active snapshot.
func (d *DashboardLoader) View(f models.Filter, now time.Time) models.DashboardView {
	st := d.current.Load()
	v := BuildDashboardView(st.snap, f, now)
	v.Status = st.status
	return v
}

// Subscribe returns a channel signalled after every install.
func (d *DashboardLoader) Subscribe() (int, <-chan struct{}) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	id := d.nextSub
	d.nextSub++
	ch := make(chan struct{}, 1)
	d.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a subscription.
func (d *DashboardLoader) Unsubscribe(id int) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	if ch, ok := d.subs[id]; ok {
		delete(d.subs, id)
		close(ch)
	}
}

func (d *DashboardLoader) fetch(ctx context.Context) (*models.DashboardSnapshot, string, error) {
	if d.source == nil {
		return nil, "no_source", errors.New("no dashboard source configured")
	}
	raw, err := d.source.Fetch(ctx)
	if err != nil {
		return nil, "transport", err
	}
	snap, err := models.DecodeSnapshot(raw)
	if err != nil {
		return nil, "malformed", err
	}
	return snap, "", nil
}

func (d *DashboardLoader) install(snap *models.DashboardSnapshot, st models.Status) {
	d.current.Store(&dashboardState{snap: snap, status: st})

	d.subMu.Lock()
	for _, ch := range d.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	d.subMu.Unlock()
}

func (d *DashboardLoader) publish(ctx context.Context, e models.SyncEvent) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, e); err != nil {
		d.log.Warn("event publish failed", applogger.String("kind", string(e.Kind)), applogger.Error(err))
	}
}

func (d *DashboardLoader) sourceName() string {
	if d.source == nil {
		return "none"
	}
	return d.source.Name()
}
