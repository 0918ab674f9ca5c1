// Package document implements document lifecycle management on top of
// the repository layer: creation with per-user limits, ownership checks,
// and autosave-style updates.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SakshamChouhan/file-to-drive/internal/model"
	"github.com/SakshamChouhan/file-to-drive/internal/repository"
)

// DefaultTitle is given to documents created without one.
const DefaultTitle = "Untitled Letter"

// Service manages letter documents.
type Service struct {
	repo *repository.DocumentRepository

	// Configuration
	maxDocumentsPerUser int
}

// Config holds configuration for the document service.
type Config struct {
	MaxDocumentsPerUser int
}

// NewService creates a new document service.
func NewService(repo *repository.DocumentRepository, config Config) *Service {
	if config.MaxDocumentsPerUser == 0 {
		config.MaxDocumentsPerUser = 100 // Default limit
	}

	return &Service{
		repo:                repo,
		maxDocumentsPerUser: config.MaxDocumentsPerUser,
	}
}

// Create creates a new document for a user.
func (s *Service) Create(ctx context.Context, req *model.CreateDocumentRequest) (*model.Document, error) {
	count, err := s.repo.CountByUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	if count >= s.maxDocumentsPerUser {
		return nil, model.ErrDocumentLimit
	}

	title := req.Title
	if title == "" {
		title = DefaultTitle
	}

	now := time.Now()
	doc := &model.Document{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Title:     title,
		Content:   req.Content,
		LastSaved: now,
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to persist document: %w", err)
	}

	return doc, nil
}

// Get retrieves a document, enforcing ownership.
func (s *Service) Get(ctx context.Context, id, userID string) (*model.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID {
		return nil, model.ErrForbidden
	}
	return doc, nil
}

// List retrieves all documents owned by a user.
func (s *Service) List(ctx context.Context, userID string) ([]*model.Document, error) {
	return s.repo.List(ctx, userID)
}

// Update applies a partial update to a document, enforcing ownership,
// and returns the updated document.
func (s *Service) Update(ctx context.Context, id, userID string, req *model.UpdateDocumentRequest) (*model.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, id, userID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, req); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// Delete removes a document, enforcing ownership.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// MaxDocumentsPerUser returns the per-user document cap.
func (s *Service) MaxDocumentsPerUser() int {
	return s.maxDocumentsPerUser
}
