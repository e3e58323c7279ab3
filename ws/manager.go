package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"hoa-server/entities"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Client is one authenticated websocket subscriber.
type Client struct {
	ID     string
	UserID uint
	Role   string

	conn *websocket.Conn
	mu   sync.Mutex
}

func NewClient(id string, userID uint, role string, conn *websocket.Conn) *Client {
	return &Client{ID: id, UserID: userID, Role: role, conn: conn}
}

// write serialises writes; gorilla connections allow one concurrent writer.
func (c *Client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Ping sends a websocket ping control frame.
func (c *Client) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Event is the envelope pushed to clients.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Manager keeps track of active websocket clients.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]*Client // clientID -> client
}

func NewManager() *Manager {
	return &Manager{clients: make(map[string]*Client)}
}

// Register adds a client, replacing any existing one with the same id.
func (m *Manager) Register(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.clients[c.ID]; ok && old != c {
		_ = old.conn.Close()
	}
	m.clients[c.ID] = c
}

// Unregister removes a client and closes its connection.
func (m *Manager) Unregister(clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients[clientID]; ok {
		_ = c.conn.Close()
		delete(m.clients, clientID)
	}
}

// Broadcast writes payload to every client accepted by allow. Clients
// that fail the write are dropped.
func (m *Manager) Broadcast(payload []byte, allow func(*Client) bool) int {
	m.mu.RLock()
	clients := make([]*Client, 0, len(m.clients))
	for _, c := range m.clients {
		if allow == nil || allow(c) {
			clients = append(clients, c)
		}
	}
	m.mu.RUnlock()

	sent := 0
	for _, c := range clients {
		if err := c.write(payload); err != nil {
			log.Printf("websocket write to %s failed, dropping client: %v", c.ID, err)
			m.Unregister(c.ID)
			continue
		}
		sent++
	}
	return sent
}

// Publish sends an event in the background to admins and to the listed
// users only. Delivery is best effort.
func (m *Manager) Publish(event string, data interface{}, userIDs []uint) {
	payload, err := json.Marshal(Event{Type: event, Data: data, Timestamp: time.Now().UTC()})
	if err != nil {
		log.Printf("cannot encode %s event: %v", event, err)
		return
	}
	audience := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		audience[id] = true
	}
	go m.Broadcast(payload, func(c *Client) bool {
		return c.Role == string(entities.RoleAdmin) || audience[c.UserID]
	})
}

// List returns a copy of current connected client IDs.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.clients))
	for id := range m.clients {
		ids = append(ids, id)
	}
	return ids
}
