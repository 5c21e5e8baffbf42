// ABOUTME: Chat row operations for the SQLite cache
// ABOUTME: Implements CRUD, substring search, and the cascading delete into messages
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/harper/chatstash/internal/models"
)

// ChatStore handles chat persistence
type ChatStore struct {
	db *DB
}

// NewChatStore creates a new ChatStore
func NewChatStore(db *DB) *ChatStore {
	return &ChatStore{db: db}
}

const chatColumns = "id, title, model, updated_at, creation_time, is_starred, owning_user_id, extra"

// Insert adds a new chat row. Returns ErrDuplicateID if the id exists.
func (s *ChatStore) Insert(chat *models.Chat) error {
	if err := chat.Validate(); err != nil {
		return err
	}

	extraJSON, err := marshalNullable(chat.Extra)
	if err != nil {
		return fmt.Errorf("failed to encode chat extras: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO chats (id, title, model, updated_at, creation_time, is_starred, owning_user_id, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, chat.ID, chat.Title, chat.Model, chat.UpdatedAt, chat.CreationTime,
		nullBool(chat.IsStarred), nullString(chat.OwningUserID), extraJSON)
	if err != nil {
		return fmt.Errorf("failed to insert chat: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check insert result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("chat %s: %w", chat.ID, ErrDuplicateID)
	}
	return nil
}

// Get retrieves a chat by id. Returns (nil, nil) if absent.
func (s *ChatStore) Get(id string) (*models.Chat, error) {
	row := s.db.QueryRow("SELECT "+chatColumns+" FROM chats WHERE id = ?", id)
	chat, err := scanChat(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return chat, nil
}

// ListAll returns every chat ordered by updated_at descending
func (s *ChatStore) ListAll() ([]models.Chat, error) {
	rows, err := s.db.Query("SELECT " + chatColumns + " FROM chats ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return collectChats(rows)
}

// Update merges the patch into an existing chat. Returns ErrNotFound if
// the id does not exist.
func (s *ChatStore) Update(id string, patch *models.ChatPatch) error {
	chat, err := s.Get(id)
	if err != nil {
		return err
	}
	if chat == nil {
		return fmt.Errorf("chat %s: %w", id, ErrNotFound)
	}

	chat.Apply(patch)

	extraJSON, err := marshalNullable(chat.Extra)
	if err != nil {
		return fmt.Errorf("failed to encode chat extras: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE chats
		SET title = ?, model = ?, updated_at = ?, is_starred = ?, owning_user_id = ?, extra = ?
		WHERE id = ?
	`, chat.Title, chat.Model, chat.UpdatedAt,
		nullBool(chat.IsStarred), nullString(chat.OwningUserID), extraJSON, id)
	if err != nil {
		return fmt.Errorf("failed to update chat: %w", err)
	}
	return nil
}

// Delete removes a chat and every message that references it in one
// transaction. Both removals commit or neither does.
func (s *ChatStore) Delete(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec("DELETE FROM chats WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete chat: %v", ErrTxAborted, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to check delete result: %v", ErrTxAborted, err)
	}
	if affected == 0 {
		return fmt.Errorf("chat %s: %w", id, ErrNotFound)
	}

	if _, err := tx.Exec("DELETE FROM messages WHERE chat_id = ?", id); err != nil {
		return fmt.Errorf("%w: failed to delete chat messages: %v", ErrTxAborted, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit delete: %v", ErrTxAborted, err)
	}
	return nil
}

// ClearWithMessages empties the chats and messages tables atomically
func (s *ChatStore) ClearWithMessages() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin clear: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM chats"); err != nil {
		return fmt.Errorf("%w: failed to clear chats: %v", ErrTxAborted, err)
	}
	if _, err := tx.Exec("DELETE FROM messages"); err != nil {
		return fmt.Errorf("%w: failed to clear messages: %v", ErrTxAborted, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit clear: %v", ErrTxAborted, err)
	}
	return nil
}

// Search returns chats whose title contains the query, case-insensitively.
// Results come back ordered by updated_at ascending; callers wanting
// most-recent-first re-sort.
func (s *ChatStore) Search(query string) ([]models.Chat, error) {
	rows, err := s.db.Query(`
		SELECT `+chatColumns+`
		FROM chats
		WHERE instr(lower(title), lower(?)) > 0
		ORDER BY updated_at ASC
	`, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search chats: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return collectChats(rows)
}

// Count returns the number of chat rows
func (s *ChatStore) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM chats").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count chats: %w", err)
	}
	return n, nil
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChat(row rowScanner) (*models.Chat, error) {
	var (
		chat      models.Chat
		isStarred sql.NullInt64
		owner     sql.NullString
		extraJSON sql.NullString
	)

	err := row.Scan(&chat.ID, &chat.Title, &chat.Model, &chat.UpdatedAt,
		&chat.CreationTime, &isStarred, &owner, &extraJSON)
	if err != nil {
		return nil, err
	}

	if isStarred.Valid {
		v := isStarred.Int64 != 0
		chat.IsStarred = &v
	}
	if owner.Valid {
		chat.OwningUserID = owner.String
	}
	if extraJSON.Valid && extraJSON.String != "" {
		if err := json.Unmarshal([]byte(extraJSON.String), &chat.Extra); err != nil {
			chat.Extra = nil
		}
	}

	return &chat, nil
}

func collectChats(rows *sql.Rows) ([]models.Chat, error) {
	var chats []models.Chat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		chats = append(chats, *chat)
	}
	return chats, rows.Err()
}
