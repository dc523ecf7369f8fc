package websocket

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"secretroom/internal/observability"
	"secretroom/pkg/logger"
)

// Client represents one WebSocket connection. A user can hold several at
// once (one per device), so clients are keyed by a connection id, not by the
// user alone.
type Client struct {
	ID        string
	SafeEmail string
	Conn      *websocket.Conn

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

func NewClient(safeEmail string, conn *websocket.Conn) *Client {
	return &Client{
		ID:        uuid.New().String(),
		SafeEmail: safeEmail,
		Conn:      conn,
		send:      make(chan []byte, 32),
	}
}

// TrySend queues a message for delivery without blocking. It reports false
// when the client is already severed or its buffer is full. Every producer
// goes through here; the lock it shares with closeSend is what keeps a send
// from racing the channel close on disconnect.
func (c *Client) TrySend(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel exactly once.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Manager manages all active WebSocket connections.
type Manager struct {
	clients    map[string]map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if m.clients[client.SafeEmail] == nil {
					m.clients[client.SafeEmail] = make(map[string]*Client)
				}
				m.clients[client.SafeEmail][client.ID] = client
				m.mutex.Unlock()
				observability.WSConnected()
				logger.Debug("client registered: %s (%s)", client.SafeEmail, client.ID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if conns, ok := m.clients[client.SafeEmail]; ok {
					if _, ok := conns[client.ID]; ok {
						delete(conns, client.ID)
						client.closeSend()
						if len(conns) == 0 {
							delete(m.clients, client.SafeEmail)
						}
						observability.WSDisconnected()
					}
				}
				m.mutex.Unlock()
				logger.Debug("client unregistered: %s (%s)", client.SafeEmail, client.ID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// SendToUser delivers a message to every connection the user holds. Slow or
// already-severed connections are skipped rather than blocked on.
func (m *Manager) SendToUser(safeEmail string, message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, client := range m.clients[safeEmail] {
		if !client.TrySend(message) {
			logger.Warn("dropping ws message for %s: client unavailable", safeEmail)
		}
	}
}

// ReadPump drains the connection until the peer disconnects, then severs
// the client.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws read: %v", err)
			}
			return
		}
	}
}

// WritePump sends queued messages to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for message := range c.send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Warn("ws write: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
