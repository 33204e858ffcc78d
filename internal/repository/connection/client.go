package connection

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait     = 10 * time.Second
	sendQueueSize = 32
)

// Client wraps a websocket connection with a buffered outbound queue drained
// by a single writer pump. Broadcasters enqueue without blocking; the pump is
// the only goroutine that writes to the socket, so concurrent fanout calls
// never interleave writes and a stalled peer never blocks the sender.
type Client struct {
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
}

// Enqueue hands the message to the writer pump without blocking. Returns
// false when the queue is full or the client is closed: the message is
// dropped, delivery is best-effort.
func (c *Client) Enqueue(message []byte) bool {
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

// Close stops the writer pump, which closes the socket on its way out. Safe
// to call more than once and concurrently with Enqueue.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// WritePump drains the outbound queue onto the socket, one write at a time
// with a deadline per write. Runs until Close or a write failure and closes
// the socket on exit.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// ReadMessage reads from the underlying socket. The read side has a single
// owner (the connection's read loop), so no serialization is needed here.
func (c *Client) ReadMessage() (int, []byte, error) {
	return c.conn.ReadMessage()
}
