package api

import (
	"net/http"
	"time"

	"Hikari/internal/domain/models"
	"Hikari/internal/presenter"
	"Hikari/internal/service/ratelimit"
	"Hikari/internal/usecase"
	xhttp "Hikari/pkg/http"
	applogger "Hikari/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardResponse carries the derived view and its display form.
type DashboardResponse struct {
	View    models.DashboardView    `json:"view"`
	Display presenter.DashboardPage `json:"display"`
}

type ReloadResponse struct {
	Degraded bool          `json:"degraded"`
	Reason   string        `json:"reason,omitempty"`
	Status   models.Status `json:"status"`
}

// DashboardHandler serves the market dashboard.
type DashboardHandler struct {
	loader  *usecase.DashboardLoader
	limiter *ratelimit.Limiter
	log     *applogger.Logger
	now     func() time.Time
}

func NewDashboardHandler(loader *usecase.DashboardLoader, limiter *ratelimit.Limiter, l *applogger.Logger) *DashboardHandler {
	if l == nil {
		l = applogger.Nop()
	}
	return &DashboardHandler{loader: loader, limiter: limiter, log: l.Component("api.dashboard"), now: time.Now}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/dashboard")
	g.GET("", h.Get)
	g.POST("/reload", h.Reload)
}

// Get returns the view for ?sector=&q=.
func (h *DashboardHandler) Get(c echo.Context) error {
	var f models.Filter
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &f); err != nil {
		return xhttp.Fail(c, xhttp.BadRequestError("invalid filter").WithError(err))
	}

	view := h.loader.View(f, h.now())
	return xhttp.Fresh(c, DashboardResponse{View: view, Display: presenter.Dashboard(view)})
}

// Reload fetches the live snapshot again, falling back to the canonical
// dataset on failure.
func (h *DashboardHandler) Reload(c echo.Context) error {
	if h.limiter != nil && !h.limiter.Allow("dashboard.reload") {
		return xhttp.Fail(c, tooManyRequests())
	}

	out := h.loader.Load(c.Request().Context())
	return xhttp.OK(c, ReloadResponse{
		Degraded: out.Degraded,
		Reason:   out.Reason,
		Status:   h.loader.Status(),
	})
}

func tooManyRequests() *xhttp.AppError {
	return xhttp.NewAppError("ERR_RATE_LIMITED", "", "リクエストが多すぎます。しばらくしてから再試行してください。", http.StatusTooManyRequests)
}
