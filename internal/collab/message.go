package collab

import (
	"encoding/json"
	"time"
)

// FrameType represents the type of a collaboration frame.
type FrameType string

const (
	// Client -> Server frame types
	FrameTypeJoin       FrameType = "join"
	FrameTypeLeave      FrameType = "leave"
	FrameTypeUpdate     FrameType = "update"
	FrameTypeCursorMove FrameType = "cursor-move"

	// Server -> Client frame types
	FrameTypeUserJoined      FrameType = "user-joined"
	FrameTypeUserLeft        FrameType = "user-left"
	FrameTypeDocumentUpdated FrameType = "document-updated"
	FrameTypeCursorPosition  FrameType = "cursor-position"
)

// ClientFrame is an inbound frame from a browser tab.
//
// Content is a pointer so an explicit empty string survives the trip; the
// server treats it as an opaque blob either way. Selection and Position are
// opaque JSON owned by the client tier.
type ClientFrame struct {
	Type       FrameType       `json:"type"`
	UserID     string          `json:"userId"`
	DocumentID string          `json:"documentId"`
	Content    *string         `json:"content,omitempty"`
	Selection  json.RawMessage `json:"selection,omitempty"`
	Position   json.RawMessage `json:"position,omitempty"`
}

// ServerFrame is an outbound frame broadcast to a document's group.
type ServerFrame struct {
	Type      FrameType       `json:"type"`
	UserID    string          `json:"userId"`
	Timestamp time.Time       `json:"timestamp"`
	Content   *string         `json:"content,omitempty"`
	Selection json.RawMessage `json:"selection,omitempty"`
	Position  json.RawMessage `json:"position,omitempty"`
}

// ParseClientFrame parses and validates an inbound frame.
// Every frame type has a closed set of required fields; anything that
// does not satisfy them is rejected here rather than at the call sites.
func ParseClientFrame(data []byte) (*ClientFrame, error) {
	var frame ClientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, err
	}

	switch frame.Type {
	case FrameTypeJoin, FrameTypeLeave:
		// userId and documentId only
	case FrameTypeUpdate:
		if frame.Content == nil {
			return nil, ErrMissingContent
		}
	case FrameTypeCursorMove:
		if len(frame.Position) == 0 {
			return nil, ErrMissingPosition
		}
	default:
		return nil, ErrUnknownFrameType
	}

	if frame.UserID == "" {
		return nil, ErrMissingUserID
	}
	if frame.DocumentID == "" {
		return nil, ErrMissingDocumentID
	}

	return &frame, nil
}
