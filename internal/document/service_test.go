package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SakshamChouhan/file-to-drive/internal/db"
	"github.com/SakshamChouhan/file-to-drive/internal/model"
	"github.com/SakshamChouhan/file-to-drive/internal/repository"
)

func setupTestService(t *testing.T, maxDocs int) *Service {
	t.Helper()

	database, err := db.NewTestDB()
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	users := repository.NewUserRepository(database)
	for _, id := range []string{"user1", "user2"} {
		err := users.Create(context.Background(), &model.User{
			ID:          id,
			DisplayName: "User " + id,
			Email:       id + "@example.com",
			CreatedAt:   time.Now(),
		})
		if err != nil {
			t.Fatalf("Failed to create user: %v", err)
		}
	}

	return NewService(repository.NewDocumentRepository(database), Config{
		MaxDocumentsPerUser: maxDocs,
	})
}

func TestService_Create(t *testing.T) {
	service := setupTestService(t, 5)
	ctx := context.Background()

	t.Run("create document successfully", func(t *testing.T) {
		doc, err := service.Create(ctx, &model.CreateDocumentRequest{
			Title:   "Cover Letter",
			Content: "To whom it may concern,",
			UserID:  "user1",
		})
		if err != nil {
			t.Fatalf("Failed to create document: %v", err)
		}

		if doc.ID == "" {
			t.Error("Document ID should not be empty")
		}
		if doc.Title != "Cover Letter" {
			t.Errorf("Expected title 'Cover Letter', got %q", doc.Title)
		}
	})

	t.Run("default title when omitted", func(t *testing.T) {
		doc, err := service.Create(ctx, &model.CreateDocumentRequest{UserID: "user1"})
		if err != nil {
			t.Fatalf("Failed to create document: %v", err)
		}
		if doc.Title != DefaultTitle {
			t.Errorf("Expected default title, got %q", doc.Title)
		}
	})
}

func TestService_DocumentLimit(t *testing.T) {
	service := setupTestService(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := service.Create(ctx, &model.CreateDocumentRequest{UserID: "user1"}); err != nil {
			t.Fatalf("Failed to create document %d: %v", i, err)
		}
	}

	_, err := service.Create(ctx, &model.CreateDocumentRequest{UserID: "user1"})
	if !errors.Is(err, model.ErrDocumentLimit) {
		t.Errorf("Expected ErrDocumentLimit, got %v", err)
	}

	// The limit is per user.
	if _, err := service.Create(ctx, &model.CreateDocumentRequest{UserID: "user2"}); err != nil {
		t.Errorf("Other user should not be limited: %v", err)
	}
}

func TestService_OwnershipEnforced(t *testing.T) {
	service := setupTestService(t, 5)
	ctx := context.Background()

	doc, err := service.Create(ctx, &model.CreateDocumentRequest{UserID: "user1"})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	if _, err := service.Get(ctx, doc.ID, "user2"); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("Get by non-owner: expected ErrForbidden, got %v", err)
	}

	title := "stolen"
	if _, err := service.Update(ctx, doc.ID, "user2", &model.UpdateDocumentRequest{Title: &title}); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("Update by non-owner: expected ErrForbidden, got %v", err)
	}

	if err := service.Delete(ctx, doc.ID, "user2"); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("Delete by non-owner: expected ErrForbidden, got %v", err)
	}

	// Owner can still do everything.
	if _, err := service.Get(ctx, doc.ID, "user1"); err != nil {
		t.Errorf("Owner get failed: %v", err)
	}
}

func TestService_Update(t *testing.T) {
	service := setupTestService(t, 5)
	ctx := context.Background()

	doc, err := service.Create(ctx, &model.CreateDocumentRequest{
		Title:  "Draft",
		UserID: "user1",
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	content := "Dear hiring manager,"
	updated, err := service.Update(ctx, doc.ID, "user1", &model.UpdateDocumentRequest{Content: &content})
	if err != nil {
		t.Fatalf("Failed to update document: %v", err)
	}
	if updated.Content != content {
		t.Errorf("Content not updated: %q", updated.Content)
	}
	if updated.Title != "Draft" {
		t.Errorf("Title should be unchanged: %q", updated.Title)
	}

	if _, err := service.Update(ctx, doc.ID, "user1", &model.UpdateDocumentRequest{}); !errors.Is(err, model.ErrEmptyUpdate) {
		t.Errorf("Empty update: expected ErrEmptyUpdate, got %v", err)
	}
}

func TestService_ListAndDelete(t *testing.T) {
	service := setupTestService(t, 5)
	ctx := context.Background()

	doc, err := service.Create(ctx, &model.CreateDocumentRequest{UserID: "user1"})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	list, err := service.List(ctx, "user1")
	if err != nil {
		t.Fatalf("Failed to list documents: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(list))
	}

	if err := service.Delete(ctx, doc.ID, "user1"); err != nil {
		t.Fatalf("Failed to delete document: %v", err)
	}

	if _, err := service.Get(ctx, doc.ID, "user1"); !errors.Is(err, model.ErrDocumentNotFound) {
		t.Errorf("Expected ErrDocumentNotFound after delete, got %v", err)
	}
}
