package api

import (
	"net/http"
	"time"

	"Hikari/internal/domain/models"
	"Hikari/internal/usecase"
	applogger "Hikari/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 90 * time.Second
	pingPeriod = 45 * time.Second
)

// StreamMessage is one websocket frame. Holdings frames carry the full
// state; dashboard frames only carry the status, clients refetch the view
// for their own filter.
type StreamMessage struct {
	Type      string                `json:"type"`
	Holdings  *models.HoldingsState `json:"holdings,omitempty"`
	Dashboard *models.Status        `json:"dashboard,omitempty"`
}

// StreamHandler pushes the holdings state on every store change.
type StreamHandler struct {
	store    *usecase.Store
	loader   *usecase.DashboardLoader
	upgrader websocket.Upgrader
	log      *applogger.Logger
}

func NewStreamHandler(store *usecase.Store, loader *usecase.DashboardLoader, l *applogger.Logger) *StreamHandler {
	if l == nil {
		l = applogger.Nop()
	}
	return &StreamHandler{
		store:  store,
		loader: loader,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: writeWait,
			CheckOrigin:      func(*http.Request) bool { return true },
		},
		log: l.Component("api.stream"),
	}
}

func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

func (h *StreamHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", applogger.Error(err))
		return nil
	}
	defer conn.Close()

	subID, changes := h.store.Subscribe(1)
	defer h.store.Unsubscribe(subID)

	var dashChanges <-chan struct{}
	if h.loader != nil {
		dashID, ch := h.loader.Subscribe()
		defer h.loader.Unsubscribe(dashID)
		dashChanges = ch
	}

	done := make(chan struct{})
	go h.readLoop(conn, done)

	h.log.Debug("stream client connected", applogger.String("remote", c.RealIP()))
	if err := h.writeHoldings(conn); err != nil {
		return nil
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			h.log.Debug("stream client gone", applogger.String("remote", c.RealIP()))
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			if err := h.writeHoldings(conn); err != nil {
				return nil
			}
		case _, ok := <-dashChanges:
			if !ok {
				dashChanges = nil
				continue
			}
			st := h.loader.Status()
			if err := h.write(conn, StreamMessage{Type: "dashboard", Dashboard: &st}); err != nil {
				return nil
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

// readLoop drains client frames so pongs and close frames are processed.
func (h *StreamHandler) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHandler) writeHoldings(conn *websocket.Conn) error {
	st := h.store.State()
	return h.write(conn, StreamMessage{Type: "holdings", Holdings: &st})
}

func (h *StreamHandler) write(conn *websocket.Conn, msg StreamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		h.log.Debug("stream write failed", applogger.Error(err))
		return err
	}
	return nil
}
