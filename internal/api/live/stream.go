package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings with this period (must be less than pongWait).
	pingPeriod = (pongWait * 9) / 10

	// Buffer size for outbound messages per subscriber.
	sendBufferSize = 64

	// Buffer size for the hub's inbound broadcast channel.
	broadcastBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamEvent is the wire format for live match events.
type StreamEvent struct {
	Type      string      `json:"type"` // "action", "finished"
	Minute    string      `json:"minute,omitempty"`
	Score     [2]int      `json:"score"`
	Narration []string    `json:"narration,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Hub fans out events for a single running match to websocket subscribers.
// Late subscribers receive a replay of everything broadcast so far.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan StreamEvent]bool
	history     []StreamEvent
	closed      bool

	broadcast chan StreamEvent
	logger    *slog.Logger
}

// NewHub creates a hub ready to run.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[chan StreamEvent]bool),
		broadcast:   make(chan StreamEvent, broadcastBufferSize),
		logger:      logger,
	}
}

// Run pumps broadcast events to subscribers until the context ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case ev := <-h.broadcast:
			h.deliver(ev)
		}
	}
}

// Broadcast queues an event for all subscribers. Drops when the hub
// buffer is full rather than blocking the simulation loop.
func (h *Hub) Broadcast(ev StreamEvent) {
	select {
	case h.broadcast <- ev:
	default:
		h.logger.Warn("stream buffer full, dropping event", "type", ev.Type)
	}
}

// Subscribe registers a new subscriber and returns its channel plus the
// events already broadcast. The caller must call the returned cancel
// function when done.
func (h *Hub) Subscribe() (<-chan StreamEvent, []StreamEvent, func()) {
	ch := make(chan StreamEvent, sendBufferSize)

	h.mu.Lock()
	replay := make([]StreamEvent, len(h.history))
	copy(replay, h.history)
	if h.closed {
		close(ch)
	} else {
		h.subscribers[ch] = true
	}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, replay, cancel
}

func (h *Hub) deliver(ev StreamEvent) {
	h.mu.Lock()
	h.history = append(h.history, ev)
	for ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow subscriber, drop it.
			delete(h.subscribers, ch)
			close(ch)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// ServeWS upgrades the request and streams hub events to the peer.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	events, replay, cancel := h.Subscribe()
	defer cancel()

	// Reader goroutine keeps pong handling alive and detects disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(ev StreamEvent) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(ev) == nil
	}

	for _, ev := range replay {
		if !write(ev) {
			conn.Close()
			return
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match over"))
				return
			}
			if !write(ev) {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
