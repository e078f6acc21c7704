package websockets

import (
	"encoding/json"
	"sync"
	"time"

	"innkeep/internal/events"
	"innkeep/internal/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
)

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Manager pushes room status change events to connected front-desk clients.
// Clients are read-only consumers; the only inbound traffic is pong frames.
type Manager struct {
	clients map[string]*client
	mutex   sync.RWMutex
	log     logger.Logger
}

func New(eventBus *events.EventBus) (*Manager, error) {
	m := &Manager{
		clients: make(map[string]*client),
		log:     logger.New("websockets"),
	}

	err := eventBus.Subscribe(events.RoomStatusChannel, func(event events.Event) error {
		return m.broadcast(event)
	})
	if err != nil {
		return nil, m.log.Err("failed to subscribe to room status channel", err)
	}

	return m, nil
}

// HandleWebSocket owns the connection for its lifetime; it returns when the
// client goes away.
func (m *Manager) HandleWebSocket(conn *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, 16),
	}

	m.mutex.Lock()
	m.clients[c.id] = c
	m.mutex.Unlock()

	log.Info("client connected", "clientID", c.id)

	go m.writePump(c)
	m.readPump(c)

	m.mutex.Lock()
	delete(m.clients, c.id)
	m.mutex.Unlock()
	close(c.send)

	log.Info("client disconnected", "clientID", c.id)
}

func (m *Manager) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (m *Manager) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

func (m *Manager) broadcast(event events.Event) error {
	log := m.log.Function("broadcast")

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event for broadcast", err, "eventID", event.ID)
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, c := range m.clients {
		select {
		case c.send <- payload:
		default:
			// Slow consumer; drop the event rather than block the bus.
			log.Warn("dropping event for slow client", "clientID", c.id)
		}
	}

	return nil
}
