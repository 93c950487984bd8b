package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"wedding-backend/internal/metrics"

	"github.com/gorilla/websocket"
)

// ChangeEvent is pushed to subscribers when a table row changes
type ChangeEvent struct {
	Table  string `json:"table"`
	Action string `json:"action"` // insert, update, delete, upsert, truncate
	ID     int    `json:"id"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 50 * time.Second
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer in front of the router
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn   *websocket.Conn
	send   chan ChangeEvent
	tables map[string]bool // empty means all tables
}

// Hub broadcasts table-change events to websocket subscribers. Clients may
// filter to specific tables with the ?tables=guests,households query param.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

// Publish sends a change event to every subscriber interested in the table.
// Slow clients are dropped rather than blocking the publisher.
func (h *Hub) Publish(table, action string, id int) {
	event := ChangeEvent{Table: table, Action: action, ID: id}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if len(c.tables) > 0 && !c.tables[table] {
			continue
		}
		select {
		case c.send <- event:
		default:
			go h.remove(c)
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
		metrics.RealtimeClients.Dec()
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request to a websocket subscription
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	c := &client{
		conn:   conn,
		send:   make(chan ChangeEvent, sendBufferSize),
		tables: parseTableFilter(r.URL.Query().Get("tables")),
	}

	h.mu.Lock()
	h.clients[c] = true
	metrics.RealtimeClients.Inc()
	h.mu.Unlock()

	go h.writeLoop(c)
	go h.readLoop(c)
}

func parseTableFilter(raw string) map[string]bool {
	tables := make(map[string]bool)
	if raw == "" {
		return tables
	}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tables[t] = true
		}
	}
	return tables
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// readLoop discards inbound messages and detects disconnects
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	c.conn.SetReadLimit(512)
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
