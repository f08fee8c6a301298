// Package websocket streams scenario events to connected dashboards.
package websocket

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/scenarios"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
	sendBuffer     = 64
)

var (
	ErrClosed        = errors.New("websocket manager closed")
	ErrBroadcastFull = errors.New("broadcast channel full")
)

// Message is a frame sent to clients
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// clientMessage is a frame received from clients. A "subscribe" frame
// restricts the connection to the listed event types; an empty list
// restores all events.
type clientMessage struct {
	Type   string   `json:"type"`
	Events []string `json:"events"`
}

// Connection represents a WebSocket client connection
type Connection struct {
	ID          string
	RemoteAddr  string
	ConnectedAt time.Time

	conn *websocket.Conn
	send chan Message

	mu     sync.Mutex
	events map[string]bool
}

func (c *Connection) accepts(eventType string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events) == 0 || c.events[eventType]
}

func (c *Connection) subscribe(events []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = make(map[string]bool, len(events))
	for _, e := range events {
		c.events[e] = true
	}
}

// ConnectionInfo describes a connection for monitoring
type ConnectionInfo struct {
	ConnectionID string    `json:"connection_id"`
	RemoteAddr   string    `json:"remote_addr"`
	ConnectedAt  time.Time `json:"connected_at"`
	Events       []string  `json:"events"`
}

// Hub owns the connection set; only its goroutine touches it
type Hub struct {
	connections map[*Connection]struct{}
	broadcast   chan Message
	register    chan *Connection
	unregister  chan *Connection
	snapshot    chan chan []ConnectionInfo
	stop        chan struct{}
	done        chan struct{}
	count       atomic.Int64
}

// Manager accepts WebSocket connections and fans scenario events out to them
type Manager struct {
	hub       *Hub
	upgrader  websocket.Upgrader
	logger    *zap.Logger
	pumps     sync.WaitGroup
	closeOnce sync.Once
}

// NewManager creates a manager and starts its hub
func NewManager(logger *zap.Logger) *Manager {
	hub := &Hub{
		connections: make(map[*Connection]struct{}),
		broadcast:   make(chan Message, 256),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		snapshot:    make(chan chan []ConnectionInfo),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}

	go hub.run(logger)

	return &Manager{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes registers the event stream endpoint
func (m *Manager) RegisterRoutes(router gin.IRoutes) {
	router.GET("/ws/scenarios", m.ServeWS)
}

// ServeWS upgrades the request and streams events until either side closes
func (m *Manager) ServeWS(c *gin.Context) {
	ws, err := m.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		m.logger.Warn("Failed to upgrade connection", zap.Error(err))
		return
	}

	conn := &Connection{
		ID:          uuid.New().String(),
		RemoteAddr:  c.Request.RemoteAddr,
		ConnectedAt: time.Now(),
		conn:        ws,
		send:        make(chan Message, sendBuffer),
	}

	m.pumps.Add(2)
	select {
	case m.hub.register <- conn:
	case <-m.hub.done:
		m.pumps.Add(-2)
		ws.Close()
		return
	}

	go m.readPump(conn)
	go m.writePump(conn)
}

// HandleScenarioEvent implements scenarios.EventSink
func (m *Manager) HandleScenarioEvent(_ context.Context, event scenarios.Event) {
	err := m.Broadcast(Message{
		Type:      string(event.Type),
		Data:      event,
		Timestamp: event.OccurredAt,
	})
	if err != nil {
		m.logger.Warn("Failed to broadcast scenario event",
			zap.String("event", string(event.Type)),
			zap.Error(err))
	}
}

// Broadcast queues a message for every connection that accepts its type
func (m *Manager) Broadcast(msg Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	select {
	case <-m.hub.done:
		return ErrClosed
	default:
	}

	select {
	case m.hub.broadcast <- msg:
		return nil
	case <-m.hub.done:
		return ErrClosed
	default:
		return ErrBroadcastFull
	}
}

// ConnectionCount returns the number of active connections
func (m *Manager) ConnectionCount() int {
	return int(m.hub.count.Load())
}

// Connections returns information about all active connections
func (m *Manager) Connections() []ConnectionInfo {
	reply := make(chan []ConnectionInfo, 1)
	select {
	case m.hub.snapshot <- reply:
		return <-reply
	case <-m.hub.done:
		return nil
	}
}

// Close stops the hub, closes every connection and waits for their pumps
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.hub.stop)
		<-m.hub.done
		m.pumps.Wait()
	})
}

// readPump reads client frames until the connection fails
func (m *Manager) readPump(conn *Connection) {
	defer func() {
		select {
		case m.hub.unregister <- conn:
		case <-m.hub.done:
		}
		conn.conn.Close()
		m.pumps.Done()
	}()

	conn.conn.SetReadLimit(maxMessageSize)
	conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.conn.SetPongHandler(func(string) error {
		return conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg clientMessage
		if err := conn.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.logger.Debug("Connection read failed", zap.String("connection_id", conn.ID), zap.Error(err))
			}
			return
		}

		if msg.Type == "subscribe" {
			conn.subscribe(msg.Events)
		}
	}
}

// writePump writes queued messages and keepalive pings
func (m *Manager) writePump(conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.conn.Close()
		m.pumps.Done()
	}()

	for {
		select {
		case message, ok := <-conn.send:
			conn.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			conn.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// run runs the hub in its own goroutine
func (h *Hub) run(logger *zap.Logger) {
	defer close(h.done)

	drop := func(conn *Connection) {
		if _, ok := h.connections[conn]; ok {
			delete(h.connections, conn)
			close(conn.send)
			h.count.Store(int64(len(h.connections)))
		}
	}

	for {
		select {
		case conn := <-h.register:
			h.connections[conn] = struct{}{}
			h.count.Store(int64(len(h.connections)))
			logger.Debug("Connection registered", zap.String("connection_id", conn.ID))

		case conn := <-h.unregister:
			drop(conn)
			logger.Debug("Connection unregistered", zap.String("connection_id", conn.ID))

		case message := <-h.broadcast:
			for conn := range h.connections {
				if !conn.accepts(message.Type) {
					continue
				}
				select {
				case conn.send <- message:
				default:
					logger.Warn("Dropping slow connection", zap.String("connection_id", conn.ID))
					drop(conn)
				}
			}

		case reply := <-h.snapshot:
			info := make([]ConnectionInfo, 0, len(h.connections))
			for conn := range h.connections {
				conn.mu.Lock()
				events := make([]string, 0, len(conn.events))
				for e := range conn.events {
					events = append(events, e)
				}
				conn.mu.Unlock()
				sort.Strings(events)

				info = append(info, ConnectionInfo{
					ConnectionID: conn.ID,
					RemoteAddr:   conn.RemoteAddr,
					ConnectedAt:  conn.ConnectedAt,
					Events:       events,
				})
			}
			reply <- info

		case <-h.stop:
			for conn := range h.connections {
				drop(conn)
			}
			return
		}
	}
}
