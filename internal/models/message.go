// ABOUTME: Message represents a single chat message row with attachments and metadata
// ABOUTME: Messages reference their chat by raw ID; no foreign key is enforced
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MessageRole is the author of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Attachment is a file reference carried by a message. StorageRef is an
// opaque handle into the host's blob storage.
type Attachment struct {
	Type       string `json:"type"`
	StorageRef string `json:"storageRef"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
}

// Message is one message inside a chat. ChatID must name an existing chat
// at creation time; it is not re-validated afterwards.
type Message struct {
	ID          string         `json:"id"`
	ChatID      string         `json:"chatId"`
	Role        MessageRole    `json:"role"`
	Content     string         `json:"content"`
	Timestamp   int64          `json:"timestamp"`
	Model       string         `json:"model,omitempty"`
	IsStreaming *bool          `json:"isStreaming,omitempty"`
	Attachments []Attachment   `json:"attachments,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// MessagePatch holds partial-field updates for a message. Nil fields are
// left untouched. Attachments and Metadata replace wholesale when set.
type MessagePatch struct {
	Content     *string        `json:"content,omitempty"`
	Timestamp   *int64         `json:"timestamp,omitempty"`
	Model       *string        `json:"model,omitempty"`
	IsStreaming *bool          `json:"isStreaming,omitempty"`
	Attachments []Attachment   `json:"attachments,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewMessage creates a Message with a locally minted ID
func NewMessage(chatID string, role MessageRole, content string) *Message {
	return &Message{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Validate checks the message row for required fields
func (m *Message) Validate() error {
	if m.ID == "" {
		return errors.New("message ID cannot be empty")
	}
	if m.ChatID == "" {
		return errors.New("message chat ID cannot be empty")
	}
	switch m.Role {
	case RoleUser, RoleAssistant, RoleSystem:
	default:
		return errors.New("invalid message role")
	}
	return nil
}

// Apply merges a patch into the message in place
func (m *Message) Apply(patch *MessagePatch) {
	if patch.Content != nil {
		m.Content = *patch.Content
	}
	if patch.Timestamp != nil {
		m.Timestamp = *patch.Timestamp
	}
	if patch.Model != nil {
		m.Model = *patch.Model
	}
	if patch.IsStreaming != nil {
		m.IsStreaming = patch.IsStreaming
	}
	if patch.Attachments != nil {
		m.Attachments = patch.Attachments
	}
	if patch.Metadata != nil {
		m.Metadata = patch.Metadata
	}
}
