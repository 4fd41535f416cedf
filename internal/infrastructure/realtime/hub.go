package realtime

import (
	"context"
	"errors"
	"sync"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTooManyClients is returned when the hub is full
var ErrTooManyClients = errors.New("too many realtime clients")

// clientBuffer is how many messages a slow client may lag behind before
// messages to it are dropped
const clientBuffer = 32

// Fanout delivers a message to the subscribers concerned
type Fanout interface {
	Broadcast(ctx context.Context, msg Message) error
}

// Client is one open SSE stream
type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Admin  bool
	ch     chan Message
}

// Messages returns the client's stream. It is closed on unsubscribe.
func (c *Client) Messages() <-chan Message {
	return c.ch
}

func (c *Client) wants(msg Message) bool {
	return c.UserID == msg.UserID || (c.Admin && msg.Admin)
}

// Hub holds the SSE clients connected to this instance
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]*Client
	maxClients int
	logger     *zap.Logger
}

// NewHub creates a hub. maxClients <= 0 means no limit.
func NewHub(maxClients int, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		maxClients: maxClients,
		logger:     logger,
	}
}

// Subscribe registers a client for p. Call the returned function when the
// stream ends.
func (h *Hub) Subscribe(p identity.Principal) (*Client, func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.maxClients > 0 && len(h.clients) >= h.maxClients {
		return nil, nil, ErrTooManyClients
	}
	c := &Client{
		ID:     uuid.New(),
		UserID: p.UserID,
		Admin:  p.IsAdmin(),
		ch:     make(chan Message, clientBuffer),
	}
	h.clients[c.ID] = c

	var once sync.Once
	return c, func() { once.Do(func() { h.remove(c.ID) }) }, nil
}

func (h *Hub) remove(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.ch)
	}
}

// Broadcast delivers msg to the owner's clients, and to admins for admin
// alerts. It never blocks: a full client misses the message.
func (h *Hub) Broadcast(_ context.Context, msg Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.wants(msg) {
			continue
		}
		select {
		case c.ch <- msg:
		default:
			h.logger.Warn("realtime client is lagging, message dropped",
				zap.String("client_id", c.ID.String()),
				zap.String("type", msg.Type))
		}
	}
	return nil
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.ch)
	}
}

var _ Fanout = (*Hub)(nil)
