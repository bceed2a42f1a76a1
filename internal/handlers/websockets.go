package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pacemaker_dcm/internal/device"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
	stopWait   = 5 * time.Second
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket. Consider tightening CheckOrigin in production.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins for production
}

// wsEgram upgrades the connection and relays live electrogram samples.
// The stream is started on demand for the requested chamber filter and
// stopped again when the client that started it disconnects.
func (h *Handler) wsEgram(c *gin.Context) {
	chamber := parseChamber(c.Query("chamber"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	ctx := c.Request.Context()
	started := false
	switch err := h.services.Telemetry.Start(ctx, chamber); {
	case err == nil:
		started = true
	case errors.Is(err, device.ErrBusy):
		// A stream is already running; attach to the shared feed.
	default:
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(wsEnvelope{Type: "error", Error: err.Error()})
		return
	}
	if started {
		// The request context is already canceled by the time the client
		// disconnects; stop on a fresh one so the shutdown event persists.
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), stopWait)
			defer cancel()
			_ = h.services.Telemetry.Stop(stopCtx)
		}()
	}

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	samples := h.services.Telemetry.Samples()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case s, ok := <-samples:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(wsEnvelope{Type: "egram", Data: s}); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseChamber normalizes the ?chamber query; anything unrecognized falls
// back to both chambers.
func parseChamber(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case device.FilterAtrium:
		return device.FilterAtrium
	case device.FilterVentricle:
		return device.FilterVentricle
	default:
		return device.FilterBoth
	}
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}
