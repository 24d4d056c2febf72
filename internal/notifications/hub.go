package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"inkshelf/internal/middleware"
	"inkshelf/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	maxConnsPerUser = 12
	maxTotalConns   = 10000
)

var (
	ErrServerConnLimit = errors.New("server connection limit reached")
	ErrUserConnLimit   = errors.New("user connection limit reached")
)

type clientSet map[*Client]struct{}

// Hub tracks the open notification sockets of this instance per user.
type Hub struct {
	mu      sync.RWMutex
	sockets map[uint]clientSet
	total   int
	closed  bool
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{sockets: make(map[uint]clientSet)}
}

// Name identifies the hub in metrics labels.
func (h *Hub) Name() string { return "notification hub" }

// Register adds a socket for userID, enforcing the per-user and global caps.
func (h *Hub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || h.total >= maxTotalConns {
		return nil, ErrServerConnLimit
	}
	set := h.sockets[userID]
	if len(set) >= maxConnsPerUser {
		return nil, ErrUserConnLimit
	}
	if set == nil {
		set = make(clientSet)
		h.sockets[userID] = set
	}

	client := NewClient(h, conn, userID)
	set[client] = struct{}{}
	h.total++
	observability.WebSocketConnectionsTotal.Inc()
	return client, nil
}

// UnregisterClient forgets client. It is idempotent.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) bool {
	set := h.sockets[client.UserID]
	if _, ok := set[client]; !ok {
		return false
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.sockets, client.UserID)
	}
	h.total--
	observability.WebSocketConnectionsTotal.Dec()
	return true
}

// Broadcast queues message on every socket of userID.
func (h *Hub) Broadcast(userID uint, message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for c := range h.sockets[userID] {
		c.TrySend(data)
	}
}

// BroadcastAll queues message on every socket of the instance.
func (h *Hub) BroadcastAll(message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for _, set := range h.sockets {
		for c := range set {
			c.TrySend(data)
		}
	}
}

// Disconnect drops every socket of userID. Messages already queued are
// still written before the close frame. Returns how many were dropped.
func (h *Hub) Disconnect(userID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for c := range h.sockets[userID] {
		if h.removeLocked(c) {
			c.closeSend()
			n++
		}
	}
	return n
}

// IsOnline reports whether userID has at least one open socket here.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sockets[userID]) > 0
}

// StartWiring subscribes the hub to the notifier. A banned user gets the
// ban event and is then disconnected.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartPatternSubscriber(ctx, func(channel, payload string) {
		if channel == broadcastChannel {
			h.BroadcastAll(payload)
			return
		}
		userID, ok := parseUserChannel(channel)
		if !ok {
			middleware.Logger.Warn("invalid notification channel", slog.String("channel", channel))
			return
		}
		h.Broadcast(userID, payload)
		if eventType(payload) == EventAccountBanned {
			if n := h.Disconnect(userID); n > 0 {
				middleware.Logger.Info("disconnected banned user", slog.Uint64("user_id", uint64(userID)), slog.Int("sockets", n))
			}
		}
	})
}

func eventType(payload string) string {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(payload), &head); err != nil {
		return ""
	}
	return head.Type
}

// Shutdown sends a going-away close frame to every socket and refuses new ones.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for userID, set := range h.sockets {
		for c := range set {
			if c.Conn == nil {
				continue
			}
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")
			if err := c.Conn.WriteMessage(websocket.CloseMessage, msg); err != nil {
				middleware.Logger.Warn("failed to write close message",
					slog.Uint64("user_id", uint64(userID)), slog.String("error", err.Error()))
			}
			_ = c.Conn.Close()
		}
	}
	observability.WebSocketConnectionsTotal.Sub(float64(h.total))
	h.sockets = make(map[uint]clientSet)
	h.total = 0
	return nil
}
