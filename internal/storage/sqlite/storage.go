// ABOUTME: Unified Storage facade over the chat, message, and project stores
// ABOUTME: Read paths degrade to empty results and log; write paths surface errors
package sqlite

import (
	"fmt"
	"log"

	"github.com/harper/chatstash/internal/models"
)

// Storage is the local-first cache over the three entity tables. Callers
// (CLI, MCP tools, the remote collaborator) reach the tables only through
// these operations; transaction boundaries inside them carry correctness.
type Storage struct {
	db       *DB
	chats    *ChatStore
	messages *MessageStore
	projects *ProjectStore

	// quotaBytes is advisory, surfaced through StorageInfo only
	quotaBytes int64
}

// NewStorage initializes storage at the default XDG path
func NewStorage() (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath())
}

// NewStorageWithPath initializes storage with a custom database path
func NewStorageWithPath(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:       db,
		chats:    NewChatStore(db),
		messages: NewMessageStore(db),
		projects: NewProjectStore(db),
	}
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SetQuotaBytes sets the advisory storage quota reported by StorageInfo
func (s *Storage) SetQuotaBytes(quota int64) {
	s.quotaBytes = quota
}

// --- Chat operations ---

// ListChats returns all chats, most recently touched first. Never fails;
// engine errors are logged and an empty list is returned so callers can
// always render something.
func (s *Storage) ListChats() []models.Chat {
	chats, err := s.chats.ListAll()
	if err != nil {
		log.Printf("[storage] list chats failed: %v", err)
		return []models.Chat{}
	}
	if chats == nil {
		chats = []models.Chat{}
	}
	return chats
}

// GetChat returns the chat with the given id, or nil if absent
func (s *Storage) GetChat(id string) *models.Chat {
	chat, err := s.chats.Get(id)
	if err != nil {
		log.Printf("[storage] get chat %s failed: %v", id, err)
		return nil
	}
	return chat
}

// AddChat inserts a new chat row
func (s *Storage) AddChat(chat *models.Chat) error {
	return s.chats.Insert(chat)
}

// UpdateChat merges partial fields into an existing chat
func (s *Storage) UpdateChat(id string, patch *models.ChatPatch) error {
	return s.chats.Update(id, patch)
}

// DeleteChat removes the chat and all of its messages atomically
func (s *Storage) DeleteChat(id string) error {
	return s.chats.Delete(id)
}

// ClearAllChats empties the chats and messages tables atomically
func (s *Storage) ClearAllChats() error {
	return s.chats.ClearWithMessages()
}

// SearchChats returns chats whose title contains the query,
// case-insensitively, ordered by updated_at ascending (scan order;
// callers wanting most-recent-first re-sort).
func (s *Storage) SearchChats(query string) []models.Chat {
	chats, err := s.chats.Search(query)
	if err != nil {
		log.Printf("[storage] search chats failed: %v", err)
		return []models.Chat{}
	}
	if chats == nil {
		chats = []models.Chat{}
	}
	return chats
}

// --- Message operations ---

// ListAllMessages returns every message ordered by timestamp ascending
func (s *Storage) ListAllMessages() []models.Message {
	messages, err := s.messages.ListAll()
	if err != nil {
		log.Printf("[storage] list messages failed: %v", err)
		return []models.Message{}
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages
}

// ListChatMessages returns one chat's messages ordered by timestamp ascending
func (s *Storage) ListChatMessages(chatID string) []models.Message {
	messages, err := s.messages.ListByChat(chatID)
	if err != nil {
		log.Printf("[storage] list messages for chat %s failed: %v", chatID, err)
		return []models.Message{}
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages
}

// GetMessage returns the message with the given id, or nil if absent
func (s *Storage) GetMessage(id string) *models.Message {
	msg, err := s.messages.Get(id)
	if err != nil {
		log.Printf("[storage] get message %s failed: %v", id, err)
		return nil
	}
	return msg
}

// AddMessage inserts a new message row
func (s *Storage) AddMessage(msg *models.Message) error {
	return s.messages.Insert(msg)
}

// UpdateMessage merges partial fields into an existing message
func (s *Storage) UpdateMessage(id string, patch *models.MessagePatch) error {
	return s.messages.Update(id, patch)
}

// DeleteMessage removes a single message (no cascade)
func (s *Storage) DeleteMessage(id string) error {
	return s.messages.Delete(id)
}

// SearchMessages returns messages whose content contains the query,
// optionally narrowed to one chat, ordered by timestamp ascending
func (s *Storage) SearchMessages(query, chatID string) []models.Message {
	messages, err := s.messages.Search(query, chatID)
	if err != nil {
		log.Printf("[storage] search messages failed: %v", err)
		return []models.Message{}
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages
}

// --- Project operations ---

// ListProjects returns all projects, most recently touched first
func (s *Storage) ListProjects() []models.Project {
	projects, err := s.projects.ListAll()
	if err != nil {
		log.Printf("[storage] list projects failed: %v", err)
		return []models.Project{}
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects
}

// GetProject returns the project with the given id, or nil if absent
func (s *Storage) GetProject(id string) *models.Project {
	project, err := s.projects.Get(id)
	if err != nil {
		log.Printf("[storage] get project %s failed: %v", id, err)
		return nil
	}
	return project
}

// AddProject inserts a new project row
func (s *Storage) AddProject(project *models.Project) error {
	return s.projects.Insert(project)
}

// UpdateProject merges partial fields into an existing project
func (s *Storage) UpdateProject(id string, patch *models.ProjectPatch) error {
	return s.projects.Update(id, patch)
}

// DeleteProject removes a project. Referenced chats are untouched.
func (s *Storage) DeleteProject(id string) error {
	return s.projects.Delete(id)
}

// SearchProjects returns projects whose name or description contains the
// query, case-insensitively
func (s *Storage) SearchProjects(query string) []models.Project {
	projects, err := s.projects.Search(query)
	if err != nil {
		log.Printf("[storage] search projects failed: %v", err)
		return []models.Project{}
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects
}

// ProjectsForChat returns the projects whose chat reference set contains
// the given chat id
func (s *Storage) ProjectsForChat(chatID string) []models.Project {
	projects, err := s.projects.ForChat(chatID)
	if err != nil {
		log.Printf("[storage] projects for chat %s failed: %v", chatID, err)
		return []models.Project{}
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects
}
