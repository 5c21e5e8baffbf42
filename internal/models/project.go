// ABOUTME: Project represents a named grouping of chats owned by a user
// ABOUTME: Holds a reference set of chat IDs; deleting a project never touches chats
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Project groups chats by reference. ChatIDs is a set of chat IDs, order
// irrelevant; entries may dangle after a referenced chat is deleted.
type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	OwningUserID string   `json:"owningUserId"`
	CreationTime int64    `json:"creationTime"`
	UpdatedAt    int64    `json:"updatedAt"`
	ChatIDs      []string `json:"chatIds"`
}

// ProjectPatch holds partial-field updates for a project. ChatIDs replaces
// the whole reference set when set.
type ProjectPatch struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	OwningUserID *string  `json:"owningUserId,omitempty"`
	UpdatedAt    *int64   `json:"updatedAt,omitempty"`
	ChatIDs      []string `json:"chatIds,omitempty"`
}

// NewProject creates a Project with a locally minted ID
func NewProject(name, owningUserID string) *Project {
	now := time.Now().UnixMilli()
	return &Project{
		ID:           uuid.New().String(),
		Name:         name,
		OwningUserID: owningUserID,
		CreationTime: now,
		UpdatedAt:    now,
	}
}

// Validate checks the project row for required fields
func (p *Project) Validate() error {
	if p.ID == "" {
		return errors.New("project ID cannot be empty")
	}
	if p.OwningUserID == "" {
		return errors.New("project owning user ID cannot be empty")
	}
	return nil
}

// Apply merges a patch into the project in place
func (p *Project) Apply(patch *ProjectPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.OwningUserID != nil {
		p.OwningUserID = *patch.OwningUserID
	}
	if patch.UpdatedAt != nil {
		p.UpdatedAt = *patch.UpdatedAt
	}
	if patch.ChatIDs != nil {
		p.ChatIDs = patch.ChatIDs
	}
}

// HasChat reports whether the project references the given chat ID
func (p *Project) HasChat(chatID string) bool {
	for _, id := range p.ChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}
