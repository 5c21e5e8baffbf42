// ABOUTME: Chat represents a cached conversation row mirrored from the remote system
// ABOUTME: Core data structure for the local chat cache
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Chat is one conversation. IDs are minted by the remote system and treated
// as opaque strings; UpdatedAt is set by callers on every chat-affecting
// write and is not enforced monotonic here.
type Chat struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Model        string         `json:"model"`
	UpdatedAt    int64          `json:"updatedAt"`
	CreationTime int64          `json:"creationTime"`
	IsStarred    *bool          `json:"isStarred,omitempty"`
	OwningUserID string         `json:"owningUserId,omitempty"`
	// Extra holds optional flags that evolve without schema rewrites
	// (archived, temporary, password-protected and whatever comes next).
	Extra map[string]any `json:"extra,omitempty"`
}

// ChatPatch holds partial-field updates for a chat. Nil fields are left
// untouched; Extra keys are merged over the existing map.
type ChatPatch struct {
	Title        *string        `json:"title,omitempty"`
	Model        *string        `json:"model,omitempty"`
	UpdatedAt    *int64         `json:"updatedAt,omitempty"`
	IsStarred    *bool          `json:"isStarred,omitempty"`
	OwningUserID *string        `json:"owningUserId,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// NewChat creates a Chat with a locally minted ID, for callers that act as
// the originating writer (CLI, tests). Rows mirrored from the remote keep
// the remote's IDs.
func NewChat(title, model string) *Chat {
	now := time.Now().UnixMilli()
	return &Chat{
		ID:           uuid.New().String(),
		Title:        title,
		Model:        model,
		UpdatedAt:    now,
		CreationTime: now,
	}
}

// Validate checks the chat row for required fields
func (c *Chat) Validate() error {
	if c.ID == "" {
		return errors.New("chat ID cannot be empty")
	}
	return nil
}

// Apply merges a patch into the chat in place
func (c *Chat) Apply(patch *ChatPatch) {
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Model != nil {
		c.Model = *patch.Model
	}
	if patch.UpdatedAt != nil {
		c.UpdatedAt = *patch.UpdatedAt
	}
	if patch.IsStarred != nil {
		c.IsStarred = patch.IsStarred
	}
	if patch.OwningUserID != nil {
		c.OwningUserID = *patch.OwningUserID
	}
	if len(patch.Extra) > 0 {
		if c.Extra == nil {
			c.Extra = make(map[string]any, len(patch.Extra))
		}
		for k, v := range patch.Extra {
			c.Extra[k] = v
		}
	}
}
