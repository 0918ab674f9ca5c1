// Package user resolves and provisions user accounts on top of the
// repository layer.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SakshamChouhan/file-to-drive/internal/model"
	"github.com/SakshamChouhan/file-to-drive/internal/repository"
)

// DefaultID is the account assumed for requests that carry no resolved
// identity. It exists so development installs work without sign-in;
// documents reference users by foreign key, so the account has to be a
// real row.
const DefaultID = "default-user"

// DefaultUser returns the account provisioned for unauthenticated
// development use.
func DefaultUser() *model.User {
	return &model.User{
		ID:          DefaultID,
		DisplayName: "Default User",
		Email:       "default-user@localhost",
	}
}

// Service manages user accounts.
type Service struct {
	repo *repository.UserRepository
}

// NewService creates a new user service.
func NewService(repo *repository.UserRepository) *Service {
	return &Service{repo: repo}
}

// Ensure returns the stored account matching u, creating it on first
// sight. Accounts are matched by Google ID when one is present, by ID
// otherwise.
func (s *Service) Ensure(ctx context.Context, u *model.User) (*model.User, error) {
	if u.GoogleID != "" {
		existing, err := s.repo.GetByGoogleID(ctx, u.GoogleID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, model.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
	} else {
		existing, err := s.repo.GetByID(ctx, u.ID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, model.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
	}

	created := *u
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now()
	}
	if err := s.repo.Create(ctx, &created); err != nil {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}

	return &created, nil
}

// Get retrieves a user by ID.
func (s *Service) Get(ctx context.Context, id string) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}
