package user

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/SakshamChouhan/file-to-drive/internal/db"
	"github.com/SakshamChouhan/file-to-drive/internal/model"
	"github.com/SakshamChouhan/file-to-drive/internal/repository"
)

// setupFileService opens a file-backed database through InitDB so the
// startup pragmas are in effect exactly as the server runs them,
// foreign key enforcement included.
func setupFileService(t *testing.T) (*Service, *repository.DocumentRepository) {
	t.Helper()

	db.ResetDB()
	database, err := db.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(db.ResetDB)

	return NewService(repository.NewUserRepository(database)), repository.NewDocumentRepository(database)
}

func TestService_EnsureProvisionsDefaultUser(t *testing.T) {
	svc, docs := setupFileService(t)
	ctx := context.Background()

	provisioned, err := svc.Ensure(ctx, DefaultUser())
	if err != nil {
		t.Fatalf("Failed to provision default user: %v", err)
	}
	if provisioned.ID != DefaultID {
		t.Errorf("Expected ID %s, got %s", DefaultID, provisioned.ID)
	}

	// Document writes for the fallback account must satisfy the user
	// foreign key once startup provisioning has run.
	now := time.Now()
	err = docs.Create(ctx, &model.Document{
		ID:        "doc-1",
		UserID:    DefaultID,
		Title:     "First Letter",
		LastSaved: now,
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Document create for default user failed: %v", err)
	}
}

func TestService_EnsureIsIdempotent(t *testing.T) {
	svc, _ := setupFileService(t)
	ctx := context.Background()

	first, err := svc.Ensure(ctx, DefaultUser())
	if err != nil {
		t.Fatalf("First Ensure failed: %v", err)
	}

	// A second startup against the same database must reuse the row.
	second, err := svc.Ensure(ctx, DefaultUser())
	if err != nil {
		t.Fatalf("Second Ensure failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Ensure created a second account: %s vs %s", second.ID, first.ID)
	}
}

func TestService_EnsureMatchesByGoogleID(t *testing.T) {
	svc, _ := setupFileService(t)
	ctx := context.Background()

	original, err := svc.Ensure(ctx, &model.User{
		ID:          "u1",
		GoogleID:    "google-123",
		DisplayName: "Sender One",
		Email:       "one@example.com",
	})
	if err != nil {
		t.Fatalf("Failed to provision user: %v", err)
	}

	// A later sign-in carries a fresh internal ID but the same Google
	// account; it must resolve to the stored row.
	resolved, err := svc.Ensure(ctx, &model.User{
		ID:          "u2",
		GoogleID:    "google-123",
		DisplayName: "Sender One",
		Email:       "one@example.com",
	})
	if err != nil {
		t.Fatalf("Ensure by Google ID failed: %v", err)
	}
	if resolved.ID != original.ID {
		t.Errorf("Expected existing account %s, got %s", original.ID, resolved.ID)
	}
}

func TestService_Get(t *testing.T) {
	svc, _ := setupFileService(t)
	ctx := context.Background()

	if _, err := svc.Ensure(ctx, DefaultUser()); err != nil {
		t.Fatalf("Failed to provision default user: %v", err)
	}

	got, err := svc.Get(ctx, DefaultID)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if got.DisplayName != "Default User" {
		t.Errorf("Unexpected display name: %s", got.DisplayName)
	}
}
