package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"Hikari/internal/domain/models"
	drepo "Hikari/internal/domain/repository"
	applogger "Hikari/pkg/logger"

	"github.com/robfig/cron/v3"
)

// ErrSchedulerStopped is returned by Refresh once Stop has been called.
var ErrSchedulerStopped = errors.New("scheduler stopped")

// TriggerKind is the source of a reconciliation.
type TriggerKind string

const (
	TriggerStart     TriggerKind = "start"
	TriggerTick      TriggerKind = "tick"
	TriggerSelection TriggerKind = "selection"
	TriggerManual    TriggerKind = "manual"
)

// Trigger is one event fed into the scheduler's reconcile step.
type Trigger struct {
	Kind      TriggerKind
	Selection *int64
}

// Scheduler refreshes holdings on a fixed interval and on demand, and drives
// the Fetcher for the active selection.
type Scheduler struct {
	store     *Store
	backend   drepo.HoldingsBackend
	fetcher   *Fetcher
	metrics   drepo.Metrics
	publisher drepo.EventPublisher
	log       *applogger.Logger
	interval  time.Duration
	timeout   time.Duration

	refreshMu sync.Mutex

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	stopped bool
}

// SchedulerConfig carries the scheduler's collaborators.
type SchedulerConfig struct {
	Store     *Store
	Backend   drepo.HoldingsBackend
	Fetcher   *Fetcher
	Metrics   drepo.Metrics
	Publisher drepo.EventPublisher
	Log       *applogger.Logger
	Interval  time.Duration
	Timeout   time.Duration
}

// NewScheduler creates a stopped scheduler. Interval defaults to 60s.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Log == nil {
		cfg.Log = applogger.Nop()
	}
	return &Scheduler{
		store:     cfg.Store,
		backend:   cfg.Backend,
		fetcher:   cfg.Fetcher,
		metrics:   metricsOrNop(cfg.Metrics),
		publisher: cfg.Publisher,
		log:       cfg.Log.Component("scheduler"),
		interval:  cfg.Interval,
		timeout:   cfg.Timeout,
	}
}

// Start performs one immediate refresh and then schedules a tick every
// interval. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cron != nil {
		s.mu.Unlock()
		return nil
	}
	base, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopped = false
	clog := cronLogger{l: s.log}
	s.cron = cron.New(
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		s.Tick(base)
	}))
	s.mu.Unlock()

	s.reconcile(base, Trigger{Kind: TriggerStart})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.cron == nil {
		return nil
	}
	s.cron.Start()
	s.log.Info("polling started", applogger.Duration("interval_ms", s.interval))
	return nil
}

// Stop cancels the timer and waits for a running tick to finish. It is safe
// to call more than once and before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.log.Info("polling stopped")
}

// Running reports whether the timer is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// Tick runs one timer-driven reconciliation: refresh holdings and, when a
// selection is active, start a dependent fetch without waiting for it.
func (s *Scheduler) Tick(ctx context.Context) {
	if s.isStopped() {
		return
	}
	s.reconcile(ctx, Trigger{Kind: TriggerTick})
}

// OnSelectionChanged starts exactly one dependent fetch for id. A nil id only
// records the change. A stopped scheduler ignores it.
func (s *Scheduler) OnSelectionChanged(ctx context.Context, id *int64) {
	if s.isStopped() {
		return
	}
	s.reconcile(ctx, Trigger{Kind: TriggerSelection, Selection: id})
}

// Refresh reloads holdings outside the timer cadence.
func (s *Scheduler) Refresh(ctx context.Context) error {
	if s.isStopped() {
		return ErrSchedulerStopped
	}
	return s.refresh(ctx, TriggerManual)
}

func (s *Scheduler) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *Scheduler) reconcile(ctx context.Context, t Trigger) {
	switch t.Kind {
	case TriggerSelection:
		s.publish(ctx, models.SyncEvent{Kind: models.EventSelectionChanged, HoldingID: t.Selection})
		if t.Selection != nil {
			s.fetcher.FetchFor(ctx, *t.Selection)
		}
	default:
		_ = s.refresh(ctx, t.Kind)
		if t.Kind == TriggerStart {
			return
		}
		if id, _ := s.store.Selection(); id != nil {
			s.fetcher.FetchFor(ctx, *id)
		}
	}
}

// refresh replaces the collection on success and leaves it untouched on
// failure. Refreshes never overlap.
func (s *Scheduler) refresh(ctx context.Context, kind TriggerKind) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.store.BeginRefresh()

	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	items, err := s.backend.ListHoldings(rctx)
	s.metrics.RecordLatency("list_holdings", time.Since(start))
	s.metrics.RecordRefresh(string(kind), err, len(items))

	if err != nil {
		s.store.EndRefresh(models.MessageHoldingsFailed, models.Status{
			Level:   models.StatusWarning,
			Message: fmt.Sprintf("%s 次回の更新で再試行します。", models.MessageHoldingsFailed),
		})
		s.log.Warn("holdings refresh failed",
			applogger.String("trigger", string(kind)),
			applogger.Error(err),
		)
		s.publish(ctx, models.SyncEvent{Kind: models.EventHoldingsFailed, Detail: err.Error()})
		return err
	}

	s.store.ReplaceHoldings(items)
	s.store.EndRefresh("", models.Status{Level: models.StatusSuccess, Message: models.MessageHoldingsUpdated})
	s.log.Debug("holdings refreshed",
		applogger.String("trigger", string(kind)),
		applogger.Int("count", len(items)),
	)
	s.publish(ctx, models.SyncEvent{Kind: models.EventHoldingsRefreshed, Count: len(items)})
	return nil
}

func (s *Scheduler) publish(ctx context.Context, e models.SyncEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn("event publish failed", applogger.String("kind", string(e.Kind)), applogger.Error(err))
	}
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	l *applogger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(kvFields(keysAndValues), applogger.Error(err))...)
}

func kvFields(kv []interface{}) []applogger.Field {
	fields := make([]applogger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields = append(fields, applogger.Any(key, kv[i+1]))
	}
	return fields
}
