package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SakshamChouhan/file-to-drive/internal/collab"
)

func TestClient_EchoSuppression(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestClient(func() time.Time { return base })
	c.content = "my local edit"

	var callbacks int
	c.handlers = Handlers{
		OnDocumentUpdated: func(string, string, json.RawMessage, time.Time) { callbacks++ },
	}

	// An update naming the local user comes back, as can happen with
	// rapid edits racing a second tab. It must not be applied.
	stale := "older server copy"
	c.apply(&collab.ServerFrame{
		Type:      collab.FrameTypeDocumentUpdated,
		UserID:    "me",
		Timestamp: base,
		Content:   &stale,
	})

	if content, _ := c.Content(); content != "my local edit" {
		t.Errorf("own echo clobbered local state: %q", content)
	}
	if callbacks != 0 {
		t.Errorf("own echo fired the update callback %d times", callbacks)
	}
}

func TestClient_RemoteUpdateWinsOverLocalState(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestClient(func() time.Time { return base })
	c.content = "local draft"

	remote := "remote draft"
	c.apply(&collab.ServerFrame{
		Type:      collab.FrameTypeDocumentUpdated,
		UserID:    "alice",
		Timestamp: base,
		Content:   &remote,
		Selection: []byte(`{"start":1,"end":2}`),
	})

	content, selection := c.Content()
	if content != "remote draft" {
		t.Errorf("remote update not applied: %q", content)
	}
	if string(selection) != `{"start":1,"end":2}` {
		t.Errorf("remote selection not applied: %s", selection)
	}
}

func TestClient_UnknownFrameTypeIgnored(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestClient(func() time.Time { return base })
	c.content = "untouched"

	c.apply(&collab.ServerFrame{Type: "mystery", UserID: "alice", Timestamp: base})

	if content, _ := c.Content(); content != "untouched" {
		t.Errorf("unknown frame changed local state: %q", content)
	}
	if got := len(c.Participants()); got != 0 {
		t.Errorf("unknown frame created presence entries: %d", got)
	}
}

// startCollabServer runs the real server-side protocol for end-to-end
// adapter tests.
func startCollabServer(t *testing.T) (string, func()) {
	t.Helper()

	registry := collab.NewRegistry()
	handler := collab.NewHandler(registry, collab.NewHub(registry))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.HandleConnection(w, r)
	}))

	return "ws" + strings.TrimPrefix(srv.URL, "http"), srv.Close
}

func TestClient_EndToEnd(t *testing.T) {
	wsURL, shutdown := startCollabServer(t)
	defer shutdown()

	joined := make(chan string, 4)
	updated := make(chan string, 4)

	editor, err := Dial(wsURL, "editor", "doc-e2e",
		WithHandlers(Handlers{
			OnUserJoined: func(userID string, _ time.Time) { joined <- userID },
		}),
	)
	if err != nil {
		t.Fatalf("failed to dial as editor: %v", err)
	}
	defer editor.Close()

	reviewer, err := Dial(wsURL, "reviewer", "doc-e2e",
		WithHandlers(Handlers{
			OnDocumentUpdated: func(_ string, content string, _ json.RawMessage, _ time.Time) {
				updated <- content
			},
		}),
	)
	if err != nil {
		t.Fatalf("failed to dial as reviewer: %v", err)
	}
	defer reviewer.Close()

	// The editor hears about the reviewer joining.
	select {
	case userID := <-joined:
		if userID != "reviewer" {
			t.Fatalf("expected user-joined reviewer, got %s", userID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("editor never saw the reviewer join")
	}

	if err := editor.SendUpdate("Dear Madam,", nil); err != nil {
		t.Fatalf("failed to send update: %v", err)
	}

	select {
	case content := <-updated:
		if content != "Dear Madam," {
			t.Fatalf("reviewer received wrong content: %q", content)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reviewer never received the update")
	}

	if content, _ := reviewer.Content(); content != "Dear Madam," {
		t.Errorf("reviewer local state not updated: %q", content)
	}

	// The editor's own state is whatever it last wrote, not an echo.
	if content, _ := editor.Content(); content != "" {
		t.Errorf("editor state changed by its own update: %q", content)
	}

	participants := reviewer.Participants()
	if len(participants) != 1 || participants[0].UserID != "editor" {
		t.Errorf("reviewer presence table wrong: %+v", participants)
	}
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	wsURL, shutdown := startCollabServer(t)
	defer shutdown()

	c, err := Dial(wsURL, "solo", "doc-close")
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}

	c.Close()
	c.Close() // must not panic or block
}
