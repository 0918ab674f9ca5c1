package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SakshamChouhan/file-to-drive/internal/model"
)

// UserRepository provides data access for users.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, google_id, display_name, email, profile_picture, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		nullString(user.GoogleID),
		user.DisplayName,
		user.Email,
		nullString(user.ProfilePicture),
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT id, google_id, display_name, email, profile_picture, created_at
		FROM users
		WHERE id = ?
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByGoogleID retrieves a user by their Google account ID.
func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	query := `
		SELECT id, google_id, display_name, email, profile_picture, created_at
		FROM users
		WHERE google_id = ?
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, googleID))
}

func (r *UserRepository) scanOne(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var googleID sql.NullString
	var profilePicture sql.NullString

	err := row.Scan(
		&user.ID,
		&googleID,
		&user.DisplayName,
		&user.Email,
		&profilePicture,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if googleID.Valid {
		user.GoogleID = googleID.String
	}
	if profilePicture.Valid {
		user.ProfilePicture = profilePicture.String
	}

	return user, nil
}
