// ABOUTME: Tests for chat CRUD, cascade delete, and title search
// ABOUTME: Covers duplicate-id and not-found failure modes
package sqlite

import (
	"errors"
	"testing"

	"github.com/harper/chatstash/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testChat(id, title string, updatedAt int64) *models.Chat {
	return &models.Chat{
		ID:           id,
		Title:        title,
		Model:        "gpt-4o-mini",
		UpdatedAt:    updatedAt,
		CreationTime: updatedAt,
	}
}

func TestAddAndGetChat(t *testing.T) {
	store := newTestStorage(t)

	starred := true
	chat := testChat("c1", "Trip Planning", 100)
	chat.IsStarred = &starred
	chat.OwningUserID = "user_1"
	chat.Extra = map[string]any{"isArchived": true}

	if err := store.AddChat(chat); err != nil {
		t.Fatalf("AddChat() error = %v", err)
	}

	got := store.GetChat("c1")
	if got == nil {
		t.Fatal("GetChat() returned nil")
	}
	if got.Title != "Trip Planning" {
		t.Errorf("Title = %q, want %q", got.Title, "Trip Planning")
	}
	if got.IsStarred == nil || !*got.IsStarred {
		t.Error("IsStarred not round-tripped")
	}
	if got.OwningUserID != "user_1" {
		t.Errorf("OwningUserID = %q, want user_1", got.OwningUserID)
	}
	if archived, ok := got.Extra["isArchived"].(bool); !ok || !archived {
		t.Errorf("Extra[isArchived] = %v, want true", got.Extra["isArchived"])
	}
}

func TestGetChatAbsent(t *testing.T) {
	store := newTestStorage(t)
	if got := store.GetChat("missing"); got != nil {
		t.Errorf("GetChat(missing) = %+v, want nil", got)
	}
}

func TestAddChatDuplicate(t *testing.T) {
	store := newTestStorage(t)

	if err := store.AddChat(testChat("c1", "first", 1)); err != nil {
		t.Fatalf("AddChat() error = %v", err)
	}
	err := store.AddChat(testChat("c1", "second", 2))
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("second AddChat() error = %v, want ErrDuplicateID", err)
	}

	// First row must be intact
	if got := store.GetChat("c1"); got == nil || got.Title != "first" {
		t.Errorf("chat after duplicate add = %+v, want title %q", got, "first")
	}
}

func TestUpdateChat(t *testing.T) {
	store := newTestStorage(t)

	if err := store.AddChat(testChat("c1", "old title", 100)); err != nil {
		t.Fatalf("AddChat() error = %v", err)
	}

	title := "new title"
	updated := int64(200)
	starred := true
	err := store.UpdateChat("c1", &models.ChatPatch{
		Title:     &title,
		UpdatedAt: &updated,
		IsStarred: &starred,
		Extra:     map[string]any{"isTemporary": true},
	})
	if err != nil {
		t.Fatalf("UpdateChat() error = %v", err)
	}

	got := store.GetChat("c1")
	if got.Title != "new title" {
		t.Errorf("Title = %q, want %q", got.Title, "new title")
	}
	if got.UpdatedAt != 200 {
		t.Errorf("UpdatedAt = %d, want 200", got.UpdatedAt)
	}
	if got.Model != "gpt-4o-mini" {
		t.Errorf("unpatched Model = %q, want gpt-4o-mini", got.Model)
	}
	if got.IsStarred == nil || !*got.IsStarred {
		t.Error("IsStarred not patched")
	}
	if temp, ok := got.Extra["isTemporary"].(bool); !ok || !temp {
		t.Errorf("Extra[isTemporary] = %v, want true", got.Extra["isTemporary"])
	}
}

func TestUpdateChatNotFound(t *testing.T) {
	store := newTestStorage(t)
	title := "x"
	err := store.UpdateChat("missing", &models.ChatPatch{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateChat(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListChatsOrder(t *testing.T) {
	store := newTestStorage(t)

	for _, c := range []*models.Chat{
		testChat("c1", "oldest", 100),
		testChat("c2", "newest", 300),
		testChat("c3", "middle", 200),
	} {
		if err := store.AddChat(c); err != nil {
			t.Fatalf("AddChat(%s) error = %v", c.ID, err)
		}
	}

	chats := store.ListChats()
	if len(chats) != 3 {
		t.Fatalf("ListChats() len = %d, want 3", len(chats))
	}
	wantOrder := []string{"c2", "c3", "c1"}
	for i, want := range wantOrder {
		if chats[i].ID != want {
			t.Errorf("chats[%d].ID = %s, want %s", i, chats[i].ID, want)
		}
	}
}

func TestListChatsEmptyNotNil(t *testing.T) {
	store := newTestStorage(t)
	chats := store.ListChats()
	if chats == nil {
		t.Error("ListChats() on empty store = nil, want empty slice")
	}
	if len(chats) != 0 {
		t.Errorf("ListChats() len = %d, want 0", len(chats))
	}
}

func TestDeleteChatCascades(t *testing.T) {
	store := newTestStorage(t)

	if err := store.AddChat(testChat("c1", "doomed", 100)); err != nil {
		t.Fatalf("AddChat() error = %v", err)
	}
	if err := store.AddChat(testChat("c2", "survivor", 100)); err != nil {
		t.Fatalf("AddChat() error = %v", err)
	}
	for _, m := range []*models.Message{
		{ID: "m1", ChatID: "c1", Role: models.RoleUser, Content: "hello", Timestamp: 1},
		{ID: "m2", ChatID: "c1", Role: models.RoleAssistant, Content: "hi", Timestamp: 2},
		{ID: "m3", ChatID: "c2", Role: models.RoleUser, Content: "other", Timestamp: 3},
	} {
		if err := store.AddMessage(m); err != nil {
			t.Fatalf("AddMessage(%s) error = %v", m.ID, err)
		}
	}

	if err := store.DeleteChat("c1"); err != nil {
		t.Fatalf("DeleteChat() error = %v", err)
	}

	if got := store.GetChat("c1"); got != nil {
		t.Error("deleted chat still present")
	}
	if msgs := store.ListChatMessages("c1"); len(msgs) != 0 {
		t.Errorf("messages for deleted chat = %d, want 0", len(msgs))
	}
	if msgs := store.ListChatMessages("c2"); len(msgs) != 1 {
		t.Errorf("messages for surviving chat = %d, want 1", len(msgs))
	}
}

func TestDeleteChatNotFound(t *testing.T) {
	store := newTestStorage(t)
	err := store.DeleteChat("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteChat(missing) error = %v, want ErrNotFound", err)
	}
}

func TestClearAllChats(t *testing.T) {
	store := newTestStorage(t)

	if err := store.AddChat(testChat("c1", "a", 1)); err != nil {
		t.Fatalf("AddChat() error = %v", err)
	}
	if err := store.AddMessage(&models.Message{ID: "m1", ChatID: "c1", Role: models.RoleUser, Content: "x", Timestamp: 1}); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if err := store.AddProject(&models.Project{ID: "p1", Name: "keep", OwningUserID: "u1"}); err != nil {
		t.Fatalf("AddProject() error = %v", err)
	}

	if err := store.ClearAllChats(); err != nil {
		t.Fatalf("ClearAllChats() error = %v", err)
	}

	if n := len(store.ListChats()); n != 0 {
		t.Errorf("chats after clear = %d, want 0", n)
	}
	if n := len(store.ListAllMessages()); n != 0 {
		t.Errorf("messages after clear = %d, want 0", n)
	}
	// Projects are untouched by the chat clear
	if n := len(store.ListProjects()); n != 1 {
		t.Errorf("projects after chat clear = %d, want 1", n)
	}
}

func TestSearchChats(t *testing.T) {
	store := newTestStorage(t)

	for _, c := range []*models.Chat{
		testChat("c1", "Foo Bar", 300),
		testChat("c2", "nofoo", 100),
		testChat("c3", "BAZ", 200),
	} {
		if err := store.AddChat(c); err != nil {
			t.Fatalf("AddChat(%s) error = %v", c.ID, err)
		}
	}

	got := store.SearchChats("foo")
	if len(got) != 2 {
		t.Fatalf("SearchChats(foo) len = %d, want 2", len(got))
	}
	// Scan order is updated_at ascending
	if got[0].ID != "c2" || got[1].ID != "c1" {
		t.Errorf("SearchChats(foo) order = [%s %s], want [c2 c1]", got[0].ID, got[1].ID)
	}

	if n := len(store.SearchChats("FOO")); n != 2 {
		t.Errorf("SearchChats(FOO) len = %d, want 2 (case-insensitive)", n)
	}
	if n := len(store.SearchChats("quux")); n != 0 {
		t.Errorf("SearchChats(quux) len = %d, want 0", n)
	}
}

func TestReadPathDegradesAfterClose(t *testing.T) {
	store, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	if err := store.AddChat(testChat("c1", "x", 1)); err != nil {
		t.Fatalf("AddChat() error = %v", err)
	}
	_ = store.Close()

	// Reads never fail caller flow: a broken engine yields empty results
	if chats := store.ListChats(); len(chats) != 0 {
		t.Errorf("ListChats() after close = %d rows, want 0", len(chats))
	}
	if got := store.GetChat("c1"); got != nil {
		t.Error("GetChat() after close should be nil")
	}
	if msgs := store.SearchMessages("x", ""); len(msgs) != 0 {
		t.Errorf("SearchMessages() after close = %d rows, want 0", len(msgs))
	}

	// Writes surface the failure
	if err := store.AddChat(testChat("c2", "y", 2)); err == nil {
		t.Error("AddChat() after close should fail")
	}
}
