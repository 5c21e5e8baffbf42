// ABOUTME: Tests for message CRUD, timestamp ordering, and content search
// ABOUTME: Covers attachments and metadata JSON round-trips
package sqlite

import (
	"errors"
	"testing"

	"github.com/harper/chatstash/internal/models"
)

func testMessage(id, chatID, content string, ts int64) *models.Message {
	return &models.Message{
		ID:        id,
		ChatID:    chatID,
		Role:      models.RoleUser,
		Content:   content,
		Timestamp: ts,
	}
}

func TestAddAndGetMessage(t *testing.T) {
	store := newTestStorage(t)

	streaming := true
	msg := testMessage("m1", "c1", "hello there", 100)
	msg.Role = models.RoleAssistant
	msg.Model = "gpt-4o"
	msg.IsStreaming = &streaming
	msg.Attachments = []models.Attachment{
		{Type: "image", StorageRef: "blob_1", Name: "photo.png", Size: 2048},
	}
	msg.Metadata = map[string]any{"searchResults": []any{"r1", "r2"}}

	if err := store.AddMessage(msg); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	got := store.GetMessage("m1")
	if got == nil {
		t.Fatal("GetMessage() returned nil")
	}
	if got.Role != models.RoleAssistant {
		t.Errorf("Role = %s, want assistant", got.Role)
	}
	if got.IsStreaming == nil || !*got.IsStreaming {
		t.Error("IsStreaming not round-tripped")
	}
	if len(got.Attachments) != 1 || got.Attachments[0].StorageRef != "blob_1" {
		t.Errorf("Attachments = %+v, want one with storageRef blob_1", got.Attachments)
	}
	if got.Attachments[0].Size != 2048 {
		t.Errorf("Attachment size = %d, want 2048", got.Attachments[0].Size)
	}
	if got.Metadata == nil {
		t.Error("Metadata not round-tripped")
	}
}

func TestAddMessageValidation(t *testing.T) {
	store := newTestStorage(t)

	tests := []struct {
		name string
		msg  *models.Message
	}{
		{"empty id", &models.Message{ChatID: "c1", Role: models.RoleUser}},
		{"empty chat id", &models.Message{ID: "m1", Role: models.RoleUser}},
		{"bad role", &models.Message{ID: "m1", ChatID: "c1", Role: "robot"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.AddMessage(tt.msg); err == nil {
				t.Error("AddMessage() should fail validation")
			}
		})
	}
}

func TestAddMessageDuplicate(t *testing.T) {
	store := newTestStorage(t)

	if err := store.AddMessage(testMessage("m1", "c1", "a", 1)); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	err := store.AddMessage(testMessage("m1", "c1", "b", 2))
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("second AddMessage() error = %v, want ErrDuplicateID", err)
	}
}

func TestListChatMessagesOrder(t *testing.T) {
	store := newTestStorage(t)

	// Insert out of timestamp order
	for _, m := range []*models.Message{
		testMessage("m3", "c1", "third", 300),
		testMessage("m1", "c1", "first", 100),
		testMessage("m2", "c1", "second", 200),
		testMessage("mx", "c2", "other chat", 50),
	} {
		if err := store.AddMessage(m); err != nil {
			t.Fatalf("AddMessage(%s) error = %v", m.ID, err)
		}
	}

	msgs := store.ListChatMessages("c1")
	if len(msgs) != 3 {
		t.Fatalf("ListChatMessages() len = %d, want 3", len(msgs))
	}
	for i, want := range []string{"m1", "m2", "m3"} {
		if msgs[i].ID != want {
			t.Errorf("msgs[%d].ID = %s, want %s", i, msgs[i].ID, want)
		}
	}

	all := store.ListAllMessages()
	if len(all) != 4 {
		t.Fatalf("ListAllMessages() len = %d, want 4", len(all))
	}
	if all[0].ID != "mx" {
		t.Errorf("ListAllMessages()[0].ID = %s, want mx (lowest timestamp)", all[0].ID)
	}
}

func TestUpdateMessage(t *testing.T) {
	store := newTestStorage(t)

	streaming := true
	msg := testMessage("m1", "c1", "partial", 100)
	msg.IsStreaming = &streaming
	if err := store.AddMessage(msg); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	// Streaming finished: content lands, flag flips
	content := "partial plus the rest"
	done := false
	err := store.UpdateMessage("m1", &models.MessagePatch{
		Content:     &content,
		IsStreaming: &done,
	})
	if err != nil {
		t.Fatalf("UpdateMessage() error = %v", err)
	}

	got := store.GetMessage("m1")
	if got.Content != content {
		t.Errorf("Content = %q, want %q", got.Content, content)
	}
	if got.IsStreaming == nil || *got.IsStreaming {
		t.Error("IsStreaming should be false after patch")
	}
	if got.Timestamp != 100 {
		t.Errorf("unpatched Timestamp = %d, want 100", got.Timestamp)
	}
}

func TestUpdateMessageNotFound(t *testing.T) {
	store := newTestStorage(t)
	content := "x"
	err := store.UpdateMessage("missing", &models.MessagePatch{Content: &content})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateMessage(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteMessageNoCascade(t *testing.T) {
	store := newTestStorage(t)

	if err := store.AddChat(testChat("c1", "chat", 1)); err != nil {
		t.Fatalf("AddChat() error = %v", err)
	}
	if err := store.AddMessage(testMessage("m1", "c1", "a", 1)); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if err := store.AddMessage(testMessage("m2", "c1", "b", 2)); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	if err := store.DeleteMessage("m1"); err != nil {
		t.Fatalf("DeleteMessage() error = %v", err)
	}

	if store.GetChat("c1") == nil {
		t.Error("chat should survive message deletion")
	}
	if n := len(store.ListChatMessages("c1")); n != 1 {
		t.Errorf("remaining messages = %d, want 1", n)
	}

	err := store.DeleteMessage("m1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteMessage(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestSearchMessages(t *testing.T) {
	store := newTestStorage(t)

	for _, m := range []*models.Message{
		testMessage("m1", "c1", "Where should we go in Japan?", 100),
		testMessage("m2", "c1", "Try Kyoto in autumn", 200),
		testMessage("m3", "c2", "japan has great food", 50),
		testMessage("m4", "c2", "unrelated", 300),
	} {
		if err := store.AddMessage(m); err != nil {
			t.Fatalf("AddMessage(%s) error = %v", m.ID, err)
		}
	}

	got := store.SearchMessages("japan", "")
	if len(got) != 2 {
		t.Fatalf("SearchMessages(japan) len = %d, want 2", len(got))
	}
	// Ascending timestamp: m3 (50) before m1 (100)
	if got[0].ID != "m3" || got[1].ID != "m1" {
		t.Errorf("order = [%s %s], want [m3 m1]", got[0].ID, got[1].ID)
	}

	scoped := store.SearchMessages("japan", "c1")
	if len(scoped) != 1 || scoped[0].ID != "m1" {
		t.Errorf("SearchMessages(japan, c1) = %+v, want just m1", scoped)
	}
}
