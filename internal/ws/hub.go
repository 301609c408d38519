// Package ws implements the socket layer: a hub that tracks connected
// clients, answers get_users queries, and fans mutation events out to every
// open connection. Delivery is best-effort only; a client disconnected at
// broadcast time resynchronizes with its next get_users request.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/0x5c-0x200f/asterraIO-assignment/internal/domain/entity"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16

	maxMessageSize = 512

	// queryTimeout bounds the aggregate query run for a get_users request.
	queryTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins; apply CORS restrictions at the reverse-proxy level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// UserLister runs the joined aggregate query answering a get_users request.
type UserLister interface {
	ListUsers(ctx context.Context) ([]entity.UserAggregate, error)
}

// Hub is the single fan-out point shared by all socket sessions. It keeps
// the set of open connections and serializes each broadcast envelope once.
type Hub struct {
	log *logrus.Logger

	mu      sync.RWMutex
	lister  UserLister
	clients map[*client]struct{}
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[*client]struct{}),
	}
}

// SetLister wires the aggregate query source. Called once during startup,
// after the application service is constructed.
func (h *Hub) SetLister(l UserLister) {
	h.mu.Lock()
	h.lister = l
	h.mu.Unlock()
}

// ServeHTTP upgrades the connection and serves the session until the client
// disconnects. No handshake payload is required; clients request state with
// a get_users message.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufSize),
		addr: r.RemoteAddr,
	}
	h.register(c)
	defer h.unregister(c)
	h.log.WithField("addr", c.addr).Info("websocket connection established")

	go c.writePump()
	c.readPump() // blocks until the connection closes
	h.log.WithField("addr", c.addr).Info("websocket connection closed")
}

// Broadcast serializes the event once and sends it to every connection
// currently open. Fire-and-forget per client: a full send buffer drops the
// client rather than blocking the mutating request.
func (h *Hub) Broadcast(evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("marshal broadcast event")
		return
	}

	// Sends happen under the read lock so they cannot race the close of a
	// send channel, which only happens under the write lock.
	var full []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			full = append(full, c)
		}
	}
	h.mu.RUnlock()

	// Clients whose outgoing buffer is full get disconnected.
	for _, c := range full {
		h.unregister(c)
	}
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown drops every client and closes their connections. Sessions hold
// no state beyond the connection itself, so nothing else needs cleanup.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		close(c.send)
		conns = append(conns, c.conn)
		delete(h.clients, c)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// sendTo queues a message for a single session. The membership check under
// the read lock keeps the send from racing a concurrent channel close.
func (h *Hub) sendTo(c *client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// listUsers answers a get_users request on behalf of one session.
func (h *Hub) listUsers(ctx context.Context) ([]entity.UserAggregate, error) {
	h.mu.RLock()
	lister := h.lister
	h.mu.RUnlock()
	if lister == nil {
		return []entity.UserAggregate{}, nil
	}
	return lister.ListUsers(ctx)
}
