package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
	"github.com/jcastellr/netwarden/internal/telemetry"
)

const (
	writeWait     = 5 * time.Second
	eventQueueLen = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Allow same-origin (no Origin header)
		if origin == "" {
			return true
		}

		// Allowed origins
		allowedOrigins := []string{
			"http://" + r.Host,
			"http://localhost:8080",
			"http://127.0.0.1:8080",
			"http://[::1]:8080",
		}

		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}

		log.Printf("WebSocket: Rejected origin: %s", origin)
		return false
	},
}

var _ ports.EventSink = (*Hub)(nil)

// Hub owns all websocket subscribers and fans change notifications out to
// them. Publish never blocks the observation pipeline: events land in a
// buffered queue drained by a single pump goroutine, which keeps the
// pipeline's per-device emission order intact on the wire. When the queue
// is full the event is dropped and counted; subscribers recover from gaps
// through the snapshot they receive on connect.
type Hub struct {
	engine ports.Engine

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	queue chan domain.Event
}

// NewHub creates a hub with no subscribers. The engine supplying
// late-subscriber snapshots is wired afterwards via SetEngine because the
// hub is constructed first: it is the event sink the engine publishes to.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		queue:   make(chan domain.Event, eventQueueLen),
	}
}

// SetEngine wires the snapshot source used when a subscriber connects.
func (h *Hub) SetEngine(engine ports.Engine) {
	h.engine = engine
}

// Run starts the broadcast pump. It returns when ctx is cancelled, after
// closing every connection.
func (h *Hub) Run(ctx context.Context) {
	go h.pump(ctx)
}

// Publish enqueues an event for broadcast. Implements ports.EventSink.
func (h *Hub) Publish(event domain.Event) {
	telemetry.EventsPublished.WithLabelValues(string(event.Type)).Inc()
	select {
	case h.queue <- event:
	default:
		telemetry.EventsDropped.WithLabelValues(string(event.Type), "queue_full").Inc()
	}
}

// HandleWebSocket upgrades the request and registers the subscriber. The
// current device snapshot and stats are sent immediately, so a late
// subscriber starts from the present state instead of an empty screen.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	telemetry.SubscribersConnected.Set(float64(len(h.clients)))
	if h.engine != nil {
		h.sendLocked(conn, domain.Event{Type: domain.EventDevicesUpdated, Payload: h.engine.Devices()})
		h.sendLocked(conn, domain.Event{Type: domain.EventStatsUpdated, Payload: h.engine.Stats()})
	}
	h.mu.Unlock()

	log.Printf("WebSocket connected: remote=%s", r.RemoteAddr)

	// Clean up on disconnect
	go func() {
		defer conn.Close()
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			telemetry.SubscribersConnected.Set(float64(len(h.clients)))
			h.mu.Unlock()
			log.Printf("WebSocket disconnected: remote=%s", r.RemoteAddr)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case event := <-h.queue:
			h.broadcast(event)
		}
	}
}

func (h *Hub) broadcast(event domain.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
	telemetry.SubscribersConnected.Set(float64(len(h.clients)))
}

// sendLocked writes one event to a single connection. Callers hold h.mu,
// which also serializes these writes against broadcasts.
func (h *Hub) sendLocked(conn *websocket.Conn, event domain.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		delete(h.clients, conn)
	}
	telemetry.SubscribersConnected.Set(0)
}
