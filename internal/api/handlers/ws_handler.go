package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/cv-enhancer/internal/events"
	"github.com/yoockh/cv-enhancer/internal/utils"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 45 * time.Second
)

type WSHandler struct {
	events   events.Subscriber
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler accepts a nil subscriber; the endpoint then answers 503.
// An empty origin list keeps the upgrader's same-origin check.
func NewWSHandler(sub events.Subscriber, allowedOrigins []string, log *logrus.Logger) *WSHandler {
	h := &WSHandler{events: sub, log: log}
	if len(allowedOrigins) == 0 {
		return h
	}

	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}
	h.upgrader.CheckOrigin = func(r *http.Request) bool {
		_, ok := allowed[r.Header.Get("Origin")]
		return ok
	}
	return h
}

type wsClientMsg struct {
	Type string `json:"type"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (w *wsConn) writePing() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.c.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

// SessionEvents forwards the caller's session events until either side goes away.
func (h *WSHandler) SessionEvents(c *gin.Context) {
	const op = "WSHandler.SessionEvents"

	id, ok := requireIdentity(c, op)
	if !ok {
		return
	}
	if h.events == nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "session events are not configured", nil))
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// subscribe before upgrading so a broker failure is still a plain HTTP error
	sub, err := h.events.Subscribe(ctx, id.UserID)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "failed to subscribe", err))
		return
	}
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	log := h.log.WithField("clerk_id", id.UserID)
	wc := &wsConn{c: conn}

	// reader: keeps deadlines fresh and answers app-level pings
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))

			var msg wsClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"invalid json"}`))
				continue
			}
			switch msg.Type {
			case "ping":
				_ = wc.writeText([]byte(`{"type":"pong"}`))
			default:
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"unknown message type"}`))
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	log.Debug("session events stream opened")
	defer log.Debug("session events stream closed")

	// writer: broker -> WS
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := wc.writePing(); err != nil {
				return
			}
		case payload, ok := <-sub.Messages():
			if !ok {
				return
			}
			// forward as-is (payload is an encoded events.Event)
			if err := wc.writeText([]byte(payload)); err != nil {
				return
			}
		}
	}
}
