package events

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lucsky/cuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Displays connect from arbitrary origins
	},
}

// client is one connected display.
type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans broadcast events out to every connected display client.
// Displays never publish through this channel; their state reports arrive
// over HTTP. Broadcasts are fire-and-forget: a client whose send buffer is
// full is dropped rather than blocking the rest.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	stopOnce   sync.Once
}

// NewHub creates a Hub. Call Run in a goroutine before serving connections.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run processes register/unregister/broadcast requests until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("Display connected: %s (%d total)", c.id, count)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("Display disconnected: %s (%d total)", c.id, count)

		case message := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

// Stop terminates the Run loop and closes all client connections. Safe to
// call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()
		for c := range h.clients {
			close(c.send)
			_ = c.conn.Close()
			delete(h.clients, c)
		}
	})
}

// Broadcast marshals the event and queues it for every connected client.
func (h *Hub) Broadcast(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	}
	return nil
}

// ClientCount returns the number of connected display clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades an HTTP request to a websocket event-channel connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	c := &client{
		id:   cuid.Slug(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	select {
	case h.register <- c:
	case <-h.done:
		// Hub already stopped; nobody will service this connection.
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump drains the connection so control frames are processed. Inbound
// data frames are discarded; displays report state via POST /api/status.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
			// Stop already tore the client down.
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Display %s read error: %v", c.id, err)
			}
			return
		}
	}
}

// writePump forwards queued broadcasts to the connection and keeps it alive
// with periodic pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
