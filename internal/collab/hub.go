package collab

import (
	"encoding/json"
	"log"
)

// Hub fans a frame out to every member of a document's group except the
// sender. The sender exclusion is the layer's central contract: echoing
// an edit back to its author would loop updates or clobber state the
// author has already applied locally.
//
// The hub only reads the registry. A recipient found closed at delivery
// time is skipped; the disconnect path reaps it separately.
type Hub struct {
	registry *Registry
}

// NewHub creates a hub over a registry.
func NewHub(registry *Registry) *Hub {
	return &Hub{registry: registry}
}

// Broadcast delivers frame to every connection in documentID's group
// other than sender. Each recipient gets the frame at most once; delivery
// order across recipients is unspecified.
func (h *Hub) Broadcast(documentID string, sender *Conn, frame *ServerFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("Failed to marshal %s frame: %v", frame.Type, err)
		return
	}

	for _, c := range h.registry.Members(documentID) {
		if c == sender {
			continue
		}
		if !c.IsOpen() {
			continue
		}
		c.Send(data)
	}
}
