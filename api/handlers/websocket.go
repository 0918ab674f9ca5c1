package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SakshamChouhan/file-to-drive/internal/collab"
)

// WebSocketHandler exposes the collaboration channel over HTTP.
type WebSocketHandler struct {
	collabHandler *collab.Handler
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(collabHandler *collab.Handler) *WebSocketHandler {
	return &WebSocketHandler{
		collabHandler: collabHandler,
	}
}

// Attach handles GET /ws - upgrades to WebSocket and hands the connection
// to the collaboration protocol. Identity and document selection travel
// on the join frame, not the URL, matching the one-channel-per-view model.
func (h *WebSocketHandler) Attach(c *gin.Context) {
	if err := h.collabHandler.HandleConnection(c.Writer, c.Request); err != nil {
		// Upgrade failures already wrote an HTTP error response.
		return
	}
}

// RegisterRoutes registers the WebSocket route on a Gin engine.
func (h *WebSocketHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.Attach)
}
