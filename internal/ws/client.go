package ws

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	// tuning parameters
	writeWait      = 10 * time.Second    // time allowed to write a frame to the peer
	pongWait       = 60 * time.Second    // time allowed to read the next pong from the peer
	pingInterval   = (pongWait * 9) / 10 // send pings with this period
	maxMessageSize = 64 * 1024           // max inbound frame size
	sendBufSize    = 256                 // per-connection outbound buffer
	authWait       = 10 * time.Second    // time allowed for the first AUTH frame
)

// ErrBufferFull is returned by Send when the connection's egress buffer is
// saturated. The caller drops the frame; a slow reader must not stall fan-out.
var ErrBufferFull = errors.New("ws: egress buffer full")

// Client is one authenticated websocket connection. It satisfies the
// registry's Channel interface so fan-out can address it without knowing
// anything about websockets.
type Client struct {
	id     string
	userID string
	conn   *websocket.Conn
	hub    *Hub
	egress chan []byte

	mu       sync.RWMutex
	lastSeen time.Time

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(userID string, conn *websocket.Conn, h *Hub) *Client {
	return &Client{
		id:       uuid.New().String(),
		userID:   userID,
		conn:     conn,
		hub:      h,
		egress:   make(chan []byte, sendBufSize),
		lastSeen: time.Now(),
		done:     make(chan struct{}),
	}
}

func (c *Client) ID() string     { return c.id }
func (c *Client) UserID() string { return c.userID }

func (c *Client) LastSeen() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSeen
}

func (c *Client) touch() {
	c.mu.Lock()
	c.lastSeen = time.Now()
	c.mu.Unlock()
}

// Send enqueues a frame for the write pump. Payload may be a pre-marshalled
// []byte or anything json.Marshal accepts.
func (c *Client) Send(payload any) error {
	data, ok := payload.([]byte)
	if !ok {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}

	select {
	case c.egress <- data:
		return nil
	case <-c.done:
		return errors.New("ws: connection closed")
	default:
		return ErrBufferFull
	}
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *Client) readPump() {
	defer func() {
		c.hub.disconnect(c)
	}()

	c.conn.SetReadLimit(int64(maxMessageSize))
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.touch()
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read error for user %s: %v", c.userID, err)
			}
			return
		}
		c.touch()
		c.hub.handleInbound(c, data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data := <-c.egress:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("ws: write error for user %s: %v", c.userID, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
