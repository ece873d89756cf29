package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"Hikari/internal/domain/models"
	drepo "Hikari/internal/domain/repository"
	xhttp "Hikari/pkg/http"
	applogger "Hikari/pkg/logger"
)

// MutationOp names a create, update or delete call.
type MutationOp string

const (
	OpCreate MutationOp = "create"
	OpUpdate MutationOp = "update"
	OpDelete MutationOp = "delete"
)

// MutationError is returned when a create, update or delete fails. Message is
// the user-facing text; Fields carries validation details when the request
// was rejected before reaching the backend.
type MutationError struct {
	Op      MutationOp
	Status  int
	Message string
	Fields  []xhttp.ValidationError
	Err     error
}

func (e *MutationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s holding: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s holding: %s", e.Op, e.Message)
}

func (e *MutationError) Unwrap() error { return e.Err }

// HoldingsSync is the holdings surface: polling, selection and mutations.
type HoldingsSync struct {
	store     *Store
	backend   drepo.HoldingsBackend
	scheduler *Scheduler
	fetcher   *Fetcher
	metrics   drepo.Metrics
	publisher drepo.EventPublisher
	log       *applogger.Logger
	timeout   time.Duration
}

// NewHoldingsSync wires the surface together.
func NewHoldingsSync(store *Store, backend drepo.HoldingsBackend, scheduler *Scheduler, fetcher *Fetcher, metrics drepo.Metrics, publisher drepo.EventPublisher, l *applogger.Logger) *HoldingsSync {
	if l == nil {
		l = applogger.Nop()
	}
	return &HoldingsSync{
		store:     store,
		backend:   backend,
		scheduler: scheduler,
		fetcher:   fetcher,
		metrics:   metricsOrNop(metrics),
		publisher: publisher,
		log:       l.Component("holdings"),
		timeout:   10 * time.Second,
	}
}

// Store exposes the underlying store for subscribers.
func (h *HoldingsSync) Store() *Store { return h.store }

// Start begins polling.
func (h *HoldingsSync) Start(ctx context.Context) error { return h.scheduler.Start(ctx) }

// Stop ends polling and waits for in-flight dependent fetches.
func (h *HoldingsSync) Stop() {
	h.scheduler.Stop()
	h.fetcher.Wait()
}

// Refresh reloads holdings now. On failure the previous collection stays.
func (h *HoldingsSync) Refresh(ctx context.Context) error {
	return h.scheduler.Refresh(ctx)
}

// Select changes the selection; a new non-nil selection triggers one
// dependent fetch immediately.
func (h *HoldingsSync) Select(ctx context.Context, id *int64) {
	if _, changed := h.store.SetSelection(id); !changed {
		return
	}
	h.scheduler.OnSelectionChanged(ctx, id)
}

// State returns a consistent read of the holdings surface.
func (h *HoldingsSync) State() models.HoldingsState { return h.store.State() }

// Create validates and posts a new holding, then refreshes. Nothing is added
// locally before the backend confirms.
func (h *HoldingsSync) Create(ctx context.Context, req models.CreateHoldingRequest) (models.Holding, error) {
	req.Normalize()
	if err := xhttp.ValidateStruct(ctx, &req); err != nil {
		merr := &MutationError{
			Op:      OpCreate,
			Status:  http.StatusUnprocessableEntity,
			Message: models.MessageCreateFailed,
			Fields:  xhttp.ValidationErrors(err),
			Err:     err,
		}
		h.metrics.RecordMutation(string(OpCreate), merr)
		return models.Holding{}, merr
	}

	cctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	created, err := h.backend.CreateHolding(cctx, req)
	h.metrics.RecordMutation(string(OpCreate), err)
	if err != nil {
		return models.Holding{}, h.mutationError(OpCreate, models.MessageCreateFailed, err)
	}

	h.log.Info("holding created", applogger.Int64("holding_id", created.ID), applogger.String("symbol", created.Symbol))
	h.publish(ctx, models.SyncEvent{Kind: models.EventHoldingCreated, HoldingID: &created.ID, Symbol: created.Symbol})
	_ = h.Refresh(ctx)
	return created, nil
}

// UpdateMemo replaces the memo of id, swaps the returned item into the store
// and refreshes.
func (h *HoldingsSync) UpdateMemo(ctx context.Context, id int64, memo *string) (models.Holding, error) {
	cctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	updated, err := h.backend.UpdateHolding(cctx, id, models.UpdateHoldingRequest{Memo: memo})
	h.metrics.RecordMutation(string(OpUpdate), err)
	if err != nil {
		return models.Holding{}, h.mutationError(OpUpdate, models.MessageUpdateFailed, err)
	}

	h.store.ReplaceHolding(updated)
	h.publish(ctx, models.SyncEvent{Kind: models.EventHoldingUpdated, HoldingID: &updated.ID, Symbol: updated.Symbol})
	_ = h.Refresh(ctx)
	return updated, nil
}

// Delete removes id at the backend, then locally (clearing the selection if
// it pointed at id), then refreshes. A failed delete leaves the store as is.
func (h *HoldingsSync) Delete(ctx context.Context, id int64) error {
	cctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	err := h.backend.DeleteHolding(cctx, id)
	h.metrics.RecordMutation(string(OpDelete), err)
	if err != nil {
		return h.mutationError(OpDelete, models.MessageDeleteFailed, err)
	}

	h.store.RemoveHolding(id)
	h.log.Info("holding deleted", applogger.Int64("holding_id", id))
	h.publish(ctx, models.SyncEvent{Kind: models.EventHoldingDeleted, HoldingID: &id})
	_ = h.Refresh(ctx)
	return nil
}

func (h *HoldingsSync) mutationError(op MutationOp, fallback string, err error) *MutationError {
	merr := &MutationError{Op: op, Status: http.StatusBadGateway, Message: fallback, Err: err}

	var se *xhttp.StatusError
	if errors.As(err, &se) {
		merr.Status = se.Code
		switch se.Code {
		case http.StatusNotFound:
			merr.Message = models.MessageHoldingNotFound
		case http.StatusBadRequest:
			if se.Detail != "" {
				merr.Message = se.Detail
			}
		}
	}

	h.log.Warn("holding mutation failed",
		applogger.String("op", string(op)),
		applogger.Int("status", merr.Status),
		applogger.Error(err),
	)
	return merr
}

func (h *HoldingsSync) publish(ctx context.Context, e models.SyncEvent) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(ctx, e); err != nil {
		h.log.Warn("event publish failed", applogger.String("kind", string(e.Kind)), applogger.Error(err))
	}
}
