// Package monitor is a debug-only WebSocket mirror of the JSON snapshot
// stream, for browser dev tools — not part of spec §6's TCP surface, which
// is push-only raw sockets. It exists purely so a developer can watch
// snapshots in a browser without a serial panel or a bespoke TCP client.
package monitor

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/uwhrefbox/refbox/internal/core/snapshotcodec"
	"github.com/uwhrefbox/refbox/internal/core/tournament"
	"github.com/uwhrefbox/refbox/internal/telemetry"
)

const (
	clientSendBuf = 64
	writeDeadline = 5 * time.Second
	pongWait      = 30 * time.Second
	pingInterval  = 20 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Monitor fans out encoded JSON snapshots to connected browser clients.
type Monitor struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

// New constructs an empty Monitor.
func New() *Monitor {
	return &Monitor{clients: make(map[*client]struct{})}
}

// Publish pushes snap to every connected client, dropping it for any
// client whose send buffer is full rather than blocking the caller.
func (m *Monitor) Publish(snap tournament.GameSnapshot) {
	data, err := snapshotcodec.EncodeJSON(snap)
	if err != nil {
		telemetry.Warnf("monitor: encode error: %v", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for c := range m.clients {
		select {
		case c.send <- data:
		default:
			telemetry.Warnf("monitor: dropping snapshot for slow client")
		}
	}
}

// HandleWS upgrades an HTTP request to a WebSocket and registers the
// resulting client.
func (m *Monitor) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.Warnf("monitor: upgrade failed: %v", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, clientSendBuf),
		done: make(chan struct{}),
	}

	m.mu.Lock()
	m.clients[c] = struct{}{}
	m.mu.Unlock()

	telemetry.Plainf("Monitor: client connected")

	go m.writePump(c)
	go m.readPump(c)
}

func (m *Monitor) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		m.removeClient(c)
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				telemetry.Warnf("monitor: write error: %v", err)
				return
			}
		case <-c.done:
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (m *Monitor) readPump(c *client) {
	defer close(c.done)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (m *Monitor) removeClient(c *client) {
	m.mu.Lock()
	delete(m.clients, c)
	m.mu.Unlock()
	telemetry.Plainf("Monitor: client disconnected")
}

// ListenAndServe starts the monitor's HTTP/WebSocket server on addr.
func (m *Monitor) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", m.HandleWS)
	telemetry.Plainf("monitor: listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
