package models

import "time"

type EventKind string

const (
	EventHoldingsRefreshed EventKind = "holdings.refreshed"
	EventHoldingsFailed    EventKind = "holdings.refresh_failed"
	EventSelectionChanged  EventKind = "selection.changed"
	EventHoldingCreated    EventKind = "holding.created"
	EventHoldingUpdated    EventKind = "holding.updated"
	EventHoldingDeleted    EventKind = "holding.deleted"
	EventDashboardLoaded   EventKind = "dashboard.loaded"
	EventDashboardFallback EventKind = "dashboard.fallback"
)

// SyncEvent describes a state transition of the sync engine.
type SyncEvent struct {
	ID        string            `json:"id" msgpack:"id"`
	Kind      EventKind         `json:"kind" msgpack:"kind"`
	HoldingID *int64            `json:"holding_id,omitempty" msgpack:"holding_id,omitempty"`
	Symbol    string            `json:"symbol,omitempty" msgpack:"symbol,omitempty"`
	Count     int               `json:"count,omitempty" msgpack:"count,omitempty"`
	Detail    string            `json:"detail,omitempty" msgpack:"detail,omitempty"`
	At        time.Time         `json:"at" msgpack:"at"`
	Labels    map[string]string `json:"labels,omitempty" msgpack:"labels,omitempty"`
}
