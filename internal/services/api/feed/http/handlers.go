package http

import (
	stdhttp "net/http"
	"time"

	"killfeed/internal/modkit/httpkit"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	// subscribers only ever send pongs and close frames
	readLimit = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the feed is diagnostic and carries no credentials
	CheckOrigin: func(*stdhttp.Request) bool { return true },
}

// Register mounts the live feed endpoint on the given router
func Register(r httpkit.Router, hub *Hub) {
	h := &handlers{hub: hub}
	r.Get("/live", h.live)
}

type handlers struct{ hub *Hub }

// swagger:route GET /feed/live Feed feedLive
// @Summary Websocket stream of applied kills
// @Tags Feed
// @Success 101 "switching protocols"
// @Router /feed/live [get]
func (h *handlers) live(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		h.hub.log.Debug().Err(err).Msg("feed: websocket upgrade failed")
		return
	}

	c := h.hub.add()
	go h.writePump(c, conn)
	go h.readPump(c, conn)
}

// readPump drains the connection until the subscriber goes away
func (h *handlers) readPump(c *client, conn *websocket.Conn) {
	defer func() {
		h.hub.remove(c)
		conn.Close()
	}()

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNoStatusReceived) {
				h.hub.log.Debug().Err(err).Msg("feed: subscriber read error")
			}
			return
		}
		// inbound payloads are ignored
	}
}

// writePump streams events and keeps the connection alive with pings
func (h *handlers) writePump(c *client, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// the hub dropped us
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
