// Package client is the Go counterpart of the browser collaboration
// adapter: it opens one channel per document view, replays local edits
// as outbound frames, applies remote frames to local state, and tracks
// which collaborators are still around.
package client

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SakshamChouhan/file-to-drive/internal/collab"
)

const (
	// defaultSweepInterval is how often stale collaborators are evicted.
	defaultSweepInterval = time.Minute

	// defaultStaleAfter is how long a collaborator may stay silent before
	// the sweep drops them. This covers peers whose user-left frame was
	// lost to a network drop without a clean close.
	defaultStaleAfter = 5 * time.Minute
)

// Handlers holds optional callbacks invoked as remote frames arrive.
// All callbacks run on the client's read goroutine.
type Handlers struct {
	OnUserJoined      func(userID string, ts time.Time)
	OnUserLeft        func(userID string, ts time.Time)
	OnDocumentUpdated func(userID string, content string, selection json.RawMessage, ts time.Time)
	OnCursorPosition  func(userID string, position json.RawMessage, ts time.Time)
}

// Option configures a Client.
type Option func(*Client)

// WithHandlers sets the frame callbacks.
func WithHandlers(h Handlers) Option {
	return func(c *Client) { c.handlers = h }
}

// WithClock overrides the time source. Used by tests to age collaborators.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithSweepInterval overrides how often the staleness sweep runs.
func WithSweepInterval(d time.Duration) Option {
	return func(c *Client) { c.sweepInterval = d }
}

// WithStaleAfter overrides the staleness threshold.
func WithStaleAfter(d time.Duration) Option {
	return func(c *Client) { c.staleAfter = d }
}

// Client is one collaboration session on one document.
type Client struct {
	conn       *websocket.Conn
	userID     string
	documentID string
	handlers   Handlers

	now           func() time.Time
	sweepInterval time.Duration
	staleAfter    time.Duration

	mu           sync.Mutex
	participants map[string]*Participant
	content      string
	selection    json.RawMessage
	closed       bool

	done chan struct{}
	wg   sync.WaitGroup
}

// Dial opens a collaboration channel to wsURL and joins documentID as
// userID. The returned client is live: remote frames flow into the
// handlers and the presence table until Close.
func Dial(wsURL, userID, documentID string, opts ...Option) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		conn:          conn,
		userID:        userID,
		documentID:    documentID,
		now:           time.Now,
		sweepInterval: defaultSweepInterval,
		staleAfter:    defaultStaleAfter,
		participants:  make(map[string]*Participant),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.send(collab.ClientFrame{
		Type:       collab.FrameTypeJoin,
		UserID:     userID,
		DocumentID: documentID,
	}); err != nil {
		conn.Close()
		return nil, err
	}

	c.wg.Add(2)
	go c.readLoop()
	go c.sweepLoop()

	return c, nil
}

// SendUpdate replays a local edit to the rest of the group.
func (c *Client) SendUpdate(content string, selection json.RawMessage) error {
	return c.send(collab.ClientFrame{
		Type:       collab.FrameTypeUpdate,
		UserID:     c.userID,
		DocumentID: c.documentID,
		Content:    &content,
		Selection:  selection,
	})
}

// SendCursor replays a local cursor move to the rest of the group.
func (c *Client) SendCursor(position json.RawMessage) error {
	return c.send(collab.ClientFrame{
		Type:       collab.FrameTypeCursorMove,
		UserID:     c.userID,
		DocumentID: c.documentID,
		Position:   position,
	})
}

func (c *Client) send(frame collab.ClientFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.conn.WriteJSON(frame)
}

// Content returns the current local document state.
func (c *Client) Content() (string, json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content, c.selection
}

// SetContent seeds the local document state, typically from the
// persistence store before the channel opens.
func (c *Client) SetContent(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = content
}

// Close sends a leave frame if the channel is still open, then closes it.
// Calling Close on an already-closed client is a no-op.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true

	if err := c.conn.WriteJSON(collab.ClientFrame{
		Type:       collab.FrameTypeLeave,
		UserID:     c.userID,
		DocumentID: c.documentID,
	}); err != nil {
		log.Printf("Failed to send leave frame: %v", err)
	}
	c.conn.Close()
	c.mu.Unlock()

	close(c.done)
	c.wg.Wait()
}

// readLoop applies inbound frames to local state and fires callbacks.
func (c *Client) readLoop() {
	defer c.wg.Done()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame collab.ServerFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Printf("Dropping unparseable frame: %v", err)
			continue
		}

		c.apply(&frame)
	}
}

// apply processes one remote frame.
func (c *Client) apply(frame *collab.ServerFrame) {
	switch frame.Type {
	case collab.FrameTypeUserJoined:
		c.touchParticipant(frame.UserID, frame.Timestamp)
		if c.handlers.OnUserJoined != nil {
			c.handlers.OnUserJoined(frame.UserID, frame.Timestamp)
		}

	case collab.FrameTypeUserLeft:
		c.removeParticipant(frame.UserID)
		if c.handlers.OnUserLeft != nil {
			c.handlers.OnUserLeft(frame.UserID, frame.Timestamp)
		}

	case collab.FrameTypeDocumentUpdated:
		// The hub never echoes to the sending connection, but a frame
		// naming our own user can still arrive through races around rapid
		// local edits or a second tab. Applying it would clobber state we
		// already hold, so it is discarded on read as well.
		if frame.UserID == c.userID {
			return
		}
		c.touchParticipant(frame.UserID, frame.Timestamp)

		content := ""
		if frame.Content != nil {
			content = *frame.Content
		}

		// Last write wins: the remote payload replaces local state outright.
		c.mu.Lock()
		c.content = content
		if frame.Selection != nil {
			c.selection = frame.Selection
		}
		c.mu.Unlock()

		if c.handlers.OnDocumentUpdated != nil {
			c.handlers.OnDocumentUpdated(frame.UserID, content, frame.Selection, frame.Timestamp)
		}

	case collab.FrameTypeCursorPosition:
		if frame.UserID == c.userID {
			return
		}
		c.touchParticipant(frame.UserID, frame.Timestamp)
		if c.handlers.OnCursorPosition != nil {
			c.handlers.OnCursorPosition(frame.UserID, frame.Position, frame.Timestamp)
		}

	default:
		log.Printf("Dropping frame with unknown type %q", frame.Type)
	}
}

// sweepLoop periodically evicts collaborators that have gone quiet.
func (c *Client) sweepLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}
