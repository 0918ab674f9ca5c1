package collab

import (
	"sync"

	"github.com/gorilla/websocket"
)

// connState tracks where a connection is in its join lifecycle.
type connState int

const (
	stateUnjoined connState = iota
	stateJoined
	stateClosed
)

// Conn represents one WebSocket connection from an open document view.
// The userID and documentID are set once when the join frame is accepted
// and are immutable for the rest of the connection's life.
type Conn struct {
	ws   *websocket.Conn
	send chan []byte

	mu         sync.Mutex
	state      connState
	closed     bool
	userID     string
	documentID string
}

// NewConn creates a new connection wrapper around a WebSocket.
// The ws may be nil in tests that only exercise registry and hub logic.
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ws:   ws,
		send: make(chan []byte, 256),
	}
}

// Send queues a frame for delivery to this connection. A closed
// connection drops the frame silently; a full buffer closes the
// connection, treating it as a peer too slow to keep up.
func (c *Conn) Send(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		c.closeLocked()
	}
}

// Close closes the connection's send side. Safe to call more than once.
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Conn) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// IsOpen returns true if the connection can still accept frames.
func (c *Conn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// UserID returns the user this connection joined as, or "" before join.
func (c *Conn) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// DocumentID returns the document this connection joined, or "" before join.
func (c *Conn) DocumentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.documentID
}

// SendChan returns the outbound channel drained by the write pump.
func (c *Conn) SendChan() <-chan []byte {
	return c.send
}

// join records the identity from an accepted join frame and moves the
// connection to the joined state. Returns false if the connection is not
// in a state that allows joining.
func (c *Conn) join(userID, documentID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateUnjoined {
		return false
	}
	c.state = stateJoined
	c.userID = userID
	c.documentID = documentID
	return true
}

// isJoined reports whether the connection is currently in the joined state.
func (c *Conn) isJoined() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateJoined
}

// finish moves a joined connection to the closed state. Returns true
// only for the transition out of joined, so registry teardown and the
// user-left broadcast happen exactly once. Any other state is left
// untouched: a stray leave frame before join must not cost the
// connection its one chance to join.
func (c *Conn) finish() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateJoined {
		return false
	}
	c.state = stateClosed
	return true
}
