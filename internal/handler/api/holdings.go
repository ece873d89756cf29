package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"Hikari/internal/domain/models"
	"Hikari/internal/presenter"
	"Hikari/internal/service/ratelimit"
	"Hikari/internal/usecase"
	xhttp "Hikari/pkg/http"
	applogger "Hikari/pkg/logger"
	"Hikari/pkg/util"

	"github.com/labstack/echo/v4"
)

// HoldingsResponse is the holdings surface in raw and display form.
type HoldingsResponse struct {
	State  models.HoldingsState    `json:"state"`
	Cards  []presenter.HoldingCard `json:"cards"`
	News   []presenter.NewsItem    `json:"news"`
	Alerts []presenter.AlertItem   `json:"alerts"`
}

type SelectionRequest struct {
	ID *int64 `json:"id"`
}

// HoldingsHandler exposes the holdings surface over HTTP.
type HoldingsHandler struct {
	sync    *usecase.HoldingsSync
	limiter *ratelimit.Limiter
	loc     *time.Location
	log     *applogger.Logger
}

func NewHoldingsHandler(sync *usecase.HoldingsSync, limiter *ratelimit.Limiter, loc *time.Location, l *applogger.Logger) *HoldingsHandler {
	if l == nil {
		l = applogger.Nop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &HoldingsHandler{sync: sync, limiter: limiter, loc: loc, log: l.Component("api.holdings")}
}

func (h *HoldingsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/holdings", h.List)
	g.POST("/holdings", h.Create)
	g.POST("/holdings/refresh", h.Refresh)
	g.PUT("/holdings/:id", h.UpdateMemo)
	g.DELETE("/holdings/:id", h.Delete)
	g.PUT("/selection", h.Select)
}

func (h *HoldingsHandler) List(c echo.Context) error {
	return xhttp.OK(c, h.response())
}

func (h *HoldingsHandler) Create(c echo.Context) error {
	var req models.CreateHoldingRequest
	if err := c.Bind(&req); err != nil {
		return xhttp.Invalid(c, err)
	}

	created, err := h.sync.Create(c.Request().Context(), req)
	if err != nil {
		return h.mutationFailed(c, err)
	}
	return xhttp.Created(c, created)
}

func (h *HoldingsHandler) UpdateMemo(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return xhttp.Fail(c, xhttp.BadRequestErrorf("invalid holding id %q", c.Param("id")))
	}
	var req models.UpdateHoldingRequest
	if err := c.Bind(&req); err != nil {
		return xhttp.Invalid(c, err)
	}
	if req.Memo != nil && strings.TrimSpace(*req.Memo) == "" {
		req.Memo = nil
	}

	updated, err := h.sync.UpdateMemo(c.Request().Context(), id, req.Memo)
	if err != nil {
		return h.mutationFailed(c, err)
	}
	return xhttp.OK(c, updated)
}

func (h *HoldingsHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return xhttp.Fail(c, xhttp.BadRequestErrorf("invalid holding id %q", c.Param("id")))
	}
	if err := h.sync.Delete(c.Request().Context(), id); err != nil {
		return h.mutationFailed(c, err)
	}
	return xhttp.NoContent(c)
}

// Refresh reloads holdings outside the polling cadence. The previous
// collection is kept on failure and the response still carries it.
func (h *HoldingsHandler) Refresh(c echo.Context) error {
	if h.limiter != nil && !h.limiter.Allow("holdings.refresh") {
		return xhttp.Fail(c, tooManyRequests())
	}
	if err := h.sync.Refresh(c.Request().Context()); err != nil {
		return xhttp.Respond(c, http.StatusBadGateway, h.response())
	}
	return xhttp.OK(c, h.response())
}

func (h *HoldingsHandler) Select(c echo.Context) error {
	var req SelectionRequest
	if err := c.Bind(&req); err != nil {
		return xhttp.Invalid(c, err)
	}
	h.sync.Select(c.Request().Context(), req.ID)
	return xhttp.OK(c, h.response())
}

func (h *HoldingsHandler) response() HoldingsResponse {
	st := h.sync.State()
	resp := HoldingsResponse{
		State:  st,
		Cards:  presenter.Cards(st, h.loc),
		News:   make([]presenter.NewsItem, 0, len(st.News)),
		Alerts: make([]presenter.AlertItem, 0, len(st.Alerts)),
	}
	for _, a := range st.News {
		resp.News = append(resp.News, presenter.News(a, h.loc))
	}
	for _, a := range st.Alerts {
		resp.Alerts = append(resp.Alerts, presenter.Alert(a, h.loc))
	}
	return resp
}

func (h *HoldingsHandler) mutationFailed(c echo.Context, err error) error {
	var merr *usecase.MutationError
	if !errors.As(err, &merr) {
		h.log.Error("unexpected mutation error", applogger.Error(err))
		return xhttp.Fail(c, err)
	}
	if len(merr.Fields) > 0 {
		return xhttp.Respond(c, merr.Status, merr.Fields)
	}
	code := "ERR_" + strings.ToUpper(string(merr.Op))
	return xhttp.Fail(c, xhttp.NewAppError(code, "", merr.Message, merr.Status).WithError(err))
}

func pathID(c echo.Context) (int64, bool) {
	return util.ParseID(c.Param("id"))
}
