package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	// readWait bounds how long a client may stay silent. Pro Mode runs five
	// minutes, so the stream must outlive one full session.
	readWait = 6 * time.Minute
)

// Conn serializes writes to a gorilla connection, which supports only one
// concurrent writer. The ticker and the reader both send events.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

// Wrap adopts an upgraded connection.
func Wrap(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// WriteTyped sends a strongly-typed payload.
func (c *Conn) WriteTyped(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse.
func (c *Conn) WriteError(code, msg string) error {
	return c.WriteTyped(ErrorResponse{Event: EventError, Code: code, Error: msg})
}

// ReadRequest reads the next client action.
func (c *Conn) ReadRequest() (Request, error) {
	var req Request
	_ = c.ws.SetReadDeadline(time.Now().Add(readWait))
	err := c.ws.ReadJSON(&req)
	return req, err
}

// CloseNormal sends a close frame and closes the connection.
func (c *Conn) CloseNormal(reason string) {
	c.mu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
		time.Now().Add(writeWait))
	c.mu.Unlock()
	_ = c.ws.Close()
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}
