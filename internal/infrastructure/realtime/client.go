package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
	sendQueueSize  = 64
)

// Client socket conectado. rooms y closed se protegen con el mutex del hub.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID string
	role   string
	rooms  map[string]struct{}
	closed bool
}

func newClient(conn *websocket.Conn, userID, role string) *Client {
	return &Client{
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		userID: userID,
		role:   role,
		rooms:  make(map[string]struct{}),
	}
}

func (c *Client) enqueue(msg []byte) bool {
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// command frame enviado por el cliente.
type command struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}

// writePump único escritor del socket.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
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

// readPump lee comandos hasta que el socket se cierra; handle decide qué hacer con cada uno.
func (c *Client) readPump(handle func(command)) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			handle(command{Action: "invalid"})
			continue
		}
		handle(cmd)
	}
}
