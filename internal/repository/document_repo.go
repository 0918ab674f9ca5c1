package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SakshamChouhan/file-to-drive/internal/model"
)

// DocumentRepository provides data access for documents.
type DocumentRepository struct {
	db *sql.DB
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a new document into the database.
func (r *DocumentRepository) Create(ctx context.Context, doc *model.Document) error {
	query := `
		INSERT INTO documents (id, user_id, title, content, drive_id, is_in_drive, last_saved, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.Title,
		doc.Content,
		nullString(doc.DriveID),
		doc.IsInDrive,
		doc.LastSaved,
		doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by its ID.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*model.Document, error) {
	query := `
		SELECT id, user_id, title, content, drive_id, is_in_drive, last_saved, created_at
		FROM documents
		WHERE id = ?
	`

	doc := &model.Document{}
	var driveID sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Title,
		&doc.Content,
		&driveID,
		&doc.IsInDrive,
		&doc.LastSaved,
		&doc.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, model.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	if driveID.Valid {
		doc.DriveID = driveID.String
	}

	return doc, nil
}

// List retrieves all documents for a user, most recently saved first.
func (r *DocumentRepository) List(ctx context.Context, userID string) ([]*model.Document, error) {
	query := `
		SELECT id, user_id, title, content, drive_id, is_in_drive, last_saved, created_at
		FROM documents
		WHERE user_id = ?
		ORDER BY last_saved DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*model.Document
	for rows.Next() {
		doc := &model.Document{}
		var driveID sql.NullString

		err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.Title,
			&doc.Content,
			&driveID,
			&doc.IsInDrive,
			&doc.LastSaved,
			&doc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		if driveID.Valid {
			doc.DriveID = driveID.String
		}

		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return docs, nil
}

// Update applies the non-nil fields of req to the document and refreshes last_saved.
func (r *DocumentRepository) Update(ctx context.Context, id string, req *model.UpdateDocumentRequest) error {
	query := `
		UPDATE documents
		SET title = COALESCE(?, title),
		    content = COALESCE(?, content),
		    drive_id = COALESCE(?, drive_id),
		    is_in_drive = COALESCE(?, is_in_drive),
		    last_saved = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		req.Title,
		req.Content,
		req.DriveID,
		boolPtrToInt(req.IsInDrive),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return model.ErrDocumentNotFound
	}

	return nil
}

// Delete removes a document from the database.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM documents WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return model.ErrDocumentNotFound
	}

	return nil
}

// CountByUser returns the number of documents owned by a user.
func (r *DocumentRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM documents WHERE user_id = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	return count, nil
}

// nullString converts an empty string to a NULL column value.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// boolPtrToInt converts an optional bool to SQLite's integer representation.
func boolPtrToInt(b *bool) *int {
	if b == nil {
		return nil
	}
	v := 0
	if *b {
		v = 1
	}
	return &v
}
