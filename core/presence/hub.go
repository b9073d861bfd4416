package presence

import (
	"encoding/json"
	"sync"
	"time"

	"chordfm/logger"
	"chordfm/model"

	"github.com/gorilla/websocket"
)

// MessageType tags a websocket presence message.
type MessageType string

const (
	MsgTypeHello   MessageType = "hello"   // client announces itself after connect
	MsgTypePing    MessageType = "ping"    // heartbeat
	MsgTypePong    MessageType = "pong"    // heartbeat response
	MsgTypeUpdate  MessageType = "update"  // a listener appeared or moved
	MsgTypeGone    MessageType = "gone"    // a listener disconnected
	MsgTypeListing MessageType = "listing" // what a listener is playing changed
)

// WSMessage is the websocket presence envelope.
type WSMessage struct {
	Type      MessageType     `json:"type"`
	UserID    int64           `json:"userId,omitempty"`
	Username  string          `json:"username,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one connected listener.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	UserID   int64
	Username string
}

// Hub fans presence updates out to every connected listener. One hub per
// process; clients register on websocket upgrade and unregister on
// disconnect.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a hub. Call Run on its own goroutine before registering
// clients.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run pumps registrations and broadcasts until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Debug("presence client connected", logger.Int64("userId", client.UserID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.Broadcast(WSMessage{Type: MsgTypeGone, UserID: client.UserID, Username: client.Username})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop the message rather than block the hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a presence message to every connected client.
func (h *Hub) Broadcast(msg WSMessage) {
	msg.Timestamp = time.Now().Unix()
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("failed to marshal presence message", logger.ErrorField(err))
		return
	}
	select {
	case h.broadcast <- data:
	default:
		logger.Warn("presence broadcast queue full, dropping message")
	}
}

// BroadcastUpdate announces a listener's presence row to everyone.
func (h *Hub) BroadcastUpdate(p *model.Presence) {
	data, err := json.Marshal(p)
	if err != nil {
		logger.Error("failed to marshal presence update", logger.ErrorField(err))
		return
	}
	h.Broadcast(WSMessage{
		Type:     MsgTypeUpdate,
		UserID:   p.UserID,
		Username: p.Username,
		Data:     data,
	})
}

// ClientCount reports how many listeners are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NewClient wraps an upgraded websocket connection and registers it.
func (h *Hub) NewClient(conn *websocket.Conn, userID int64, username string) *Client {
	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 32),
		UserID:   userID,
		Username: username,
	}
	h.register <- client
	return client
}

// ReadPump consumes client messages (heartbeats only) until disconnect.
// Run on its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("presence websocket closed unexpectedly", logger.ErrorField(err))
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Type == MsgTypePing {
			pong, _ := json.Marshal(WSMessage{Type: MsgTypePong, Timestamp: time.Now().Unix()})
			select {
			case c.send <- pong:
			default:
			}
		}
	}
}

// WritePump flushes outbound messages and keepalive pings. Run on its own
// goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
