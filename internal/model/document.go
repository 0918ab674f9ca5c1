package model

import (
	"strings"
	"time"
)

// Document represents a letter document in the system.
type Document struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	DriveID   string    `json:"driveId,omitempty"`
	IsInDrive bool      `json:"isInDrive"`
	LastSaved time.Time `json:"lastSaved"`
	CreatedAt time.Time `json:"createdAt"`
}

// Preview returns the first line of the document content for list views.
func (d *Document) Preview() string {
	content := strings.TrimSpace(d.Content)
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[:i]
	}
	if len(content) > 120 {
		content = content[:120]
	}
	return content
}

// CreateDocumentRequest represents a request to create a new document.
type CreateDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  string `json:"-"`
}

// UpdateDocumentRequest represents a partial update to a document.
// Nil fields are left unchanged.
type UpdateDocumentRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	DriveID   *string `json:"driveId"`
	IsInDrive *bool   `json:"isInDrive"`
}

// Validate validates the update request.
func (r *UpdateDocumentRequest) Validate() error {
	if r.Title == nil && r.Content == nil && r.DriveID == nil && r.IsInDrive == nil {
		return ErrEmptyUpdate
	}
	return nil
}
