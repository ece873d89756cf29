package repository

import (
	"context"
	"time"

	"Hikari/internal/domain/models"
)

// HoldingsBackend is the REST collaborator that owns holdings.
type HoldingsBackend interface {
	ListHoldings(ctx context.Context) ([]models.Holding, error)
	CreateHolding(ctx context.Context, req models.CreateHoldingRequest) (models.Holding, error)
	UpdateHolding(ctx context.Context, id int64, req models.UpdateHoldingRequest) (models.Holding, error)
	DeleteHolding(ctx context.Context, id int64) error
	ListNews(ctx context.Context, id int64) ([]models.NewsArticle, error)
	ListAlerts(ctx context.Context, id int64) ([]models.Alert, error)
}

// SnapshotSource yields the raw dashboard document.
type SnapshotSource interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
}

// EventPublisher emits sync events for downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, e models.SyncEvent) error
	Close() error
}

type Metrics interface {
	RecordRefresh(trigger string, err error, count int)
	RecordFetch(resource string, err error)
	RecordStaleDrop(resource string)
	RecordDashboardLoad(degraded bool, reason string)
	RecordMutation(op string, err error)
	RecordLatency(op string, d time.Duration)
}
