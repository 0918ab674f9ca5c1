package collab

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Update frames carry whole
	// document bodies, so this is far above a chat-style limit.
	maxMessageSize = 1 << 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking in production
		return true
	},
}

// Handler accepts WebSocket connections and runs the collaboration
// protocol over them. Each connection walks a join state machine:
// unjoined until a valid join frame arrives, joined until a leave frame
// or transport close, then closed.
type Handler struct {
	registry *Registry
	hub      *Hub
}

// NewHandler creates a new collaboration handler.
func NewHandler(registry *Registry, hub *Hub) *Handler {
	return &Handler{
		registry: registry,
		hub:      hub,
	}
}

// Registry returns the handler's session registry.
func (h *Handler) Registry() *Registry {
	return h.registry
}

// HandleConnection upgrades the HTTP request to a WebSocket and manages
// the connection until it closes. The channel itself is not
// authenticated; identity rides on the join frame, supplied by the
// session already established over the primary connection.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) error {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	conn := NewConn(ws)

	go h.writePump(conn)
	go h.readPump(conn)

	return nil
}

// readPump pumps frames from the WebSocket into the protocol state machine.
func (h *Handler) readPump(conn *Conn) {
	defer func() {
		h.handleTransportClose(conn)
		conn.ws.Close()
	}()

	conn.ws.SetReadLimit(maxMessageSize)
	conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		conn.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		h.HandleFrame(conn, data)
	}
}

// writePump pumps queued frames from the connection to the WebSocket.
func (h *Handler) writePump(conn *Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.ws.Close()
	}()

	for {
		select {
		case data, ok := <-conn.SendChan():
			conn.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One frame per WebSocket message so JSON.parse works on the
			// receiving side.
			if err := conn.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

			n := len(conn.SendChan())
			for i := 0; i < n; i++ {
				queued := <-conn.SendChan()
				conn.ws.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.ws.WriteMessage(websocket.TextMessage, queued); err != nil {
					return
				}
			}
		case <-ticker.C:
			conn.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// HandleFrame runs one inbound frame through the state machine. Malformed
// frames and frames invalid for the connection's current state are logged
// and dropped; they never close the connection and are never rebroadcast.
func (h *Handler) HandleFrame(conn *Conn, data []byte) {
	frame, err := ParseClientFrame(data)
	if err != nil {
		log.Printf("Dropping malformed frame: %v", err)
		return
	}

	switch frame.Type {
	case FrameTypeJoin:
		h.handleJoin(conn, frame)
	case FrameTypeUpdate:
		h.handleUpdate(conn, frame)
	case FrameTypeCursorMove:
		h.handleCursorMove(conn, frame)
	case FrameTypeLeave:
		h.handleLeave(conn)
	}
}

// handleJoin admits a connection into a document's group.
func (h *Handler) handleJoin(conn *Conn, frame *ClientFrame) {
	if !conn.join(frame.UserID, frame.DocumentID) {
		log.Printf("Dropping join frame from user %s: connection not in unjoined state", frame.UserID)
		return
	}

	h.registry.Join(frame.DocumentID, conn)

	h.hub.Broadcast(frame.DocumentID, conn, &ServerFrame{
		Type:      FrameTypeUserJoined,
		UserID:    frame.UserID,
		Timestamp: time.Now(),
	})
}

// handleUpdate rebroadcasts a content update to the rest of the group.
// The payload is passed through opaque; its schema belongs to the client
// tier. The user identity comes from the join, not the frame body, so a
// joined connection cannot publish edits as someone else.
func (h *Handler) handleUpdate(conn *Conn, frame *ClientFrame) {
	if !conn.isJoined() {
		log.Printf("Dropping update frame: connection not joined")
		return
	}

	h.hub.Broadcast(conn.DocumentID(), conn, &ServerFrame{
		Type:      FrameTypeDocumentUpdated,
		UserID:    conn.UserID(),
		Timestamp: time.Now(),
		Content:   frame.Content,
		Selection: frame.Selection,
	})
}

// handleCursorMove rebroadcasts a cursor position to the rest of the group.
func (h *Handler) handleCursorMove(conn *Conn, frame *ClientFrame) {
	if !conn.isJoined() {
		log.Printf("Dropping cursor-move frame: connection not joined")
		return
	}

	h.hub.Broadcast(conn.DocumentID(), conn, &ServerFrame{
		Type:      FrameTypeCursorPosition,
		UserID:    conn.UserID(),
		Timestamp: time.Now(),
		Position:  frame.Position,
	})
}

// handleLeave removes a connection from its group and notifies the rest.
func (h *Handler) handleLeave(conn *Conn) {
	if !conn.finish() {
		log.Printf("Dropping leave frame: connection not joined")
		return
	}

	userID := conn.UserID()
	documentID := conn.DocumentID()

	h.registry.Leave(documentID, conn)

	h.hub.Broadcast(documentID, conn, &ServerFrame{
		Type:      FrameTypeUserLeft,
		UserID:    userID,
		Timestamp: time.Now(),
	})
}

// handleTransportClose treats a dropped socket exactly like an explicit
// leave when the connection was joined, and as a no-op otherwise.
func (h *Handler) handleTransportClose(conn *Conn) {
	wasJoined := conn.finish()
	conn.Close()

	if !wasJoined {
		return
	}

	documentID, ok := h.registry.Disconnect(conn)
	if !ok {
		// Already left explicitly; nothing to announce.
		return
	}

	h.hub.Broadcast(documentID, conn, &ServerFrame{
		Type:      FrameTypeUserLeft,
		UserID:    conn.UserID(),
		Timestamp: time.Now(),
	})
}

// SetCheckOrigin sets a custom origin checker for the WebSocket upgrader.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}
