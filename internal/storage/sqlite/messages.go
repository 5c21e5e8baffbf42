// ABOUTME: Message row operations for the SQLite cache
// ABOUTME: Implements CRUD and substring search; listing rides the chat_id index
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/harper/chatstash/internal/models"
)

// MessageStore handles message persistence
type MessageStore struct {
	db *DB
}

// NewMessageStore creates a new MessageStore
func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

const messageColumns = "id, chat_id, role, content, timestamp, model, is_streaming, attachments, metadata"

// Insert adds a new message row. Returns ErrDuplicateID if the id exists.
// The chat_id is stored as given; referential integrity is the caller's
// contract, not a constraint.
func (s *MessageStore) Insert(msg *models.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	attachmentsJSON, metadataJSON, err := encodeMessageBlobs(msg)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(`
		INSERT INTO messages (id, chat_id, role, content, timestamp, model, is_streaming, attachments, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, msg.ID, msg.ChatID, string(msg.Role), msg.Content, msg.Timestamp,
		nullString(msg.Model), nullBool(msg.IsStreaming), attachmentsJSON, metadataJSON)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check insert result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("message %s: %w", msg.ID, ErrDuplicateID)
	}
	return nil
}

// Get retrieves a message by id. Returns (nil, nil) if absent.
func (s *MessageStore) Get(id string) (*models.Message, error) {
	row := s.db.QueryRow("SELECT "+messageColumns+" FROM messages WHERE id = ?", id)
	msg, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return msg, nil
}

// ListAll returns every message ordered by timestamp ascending
func (s *MessageStore) ListAll() ([]models.Message, error) {
	rows, err := s.db.Query("SELECT " + messageColumns + " FROM messages ORDER BY timestamp ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return collectMessages(rows)
}

// ListByChat returns all messages for one chat ordered by timestamp
// ascending. This is the hot path on every chat open; it rides the
// chat_id index.
func (s *MessageStore) ListByChat(chatID string) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT `+messageColumns+`
		FROM messages
		WHERE chat_id = ?
		ORDER BY timestamp ASC
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return collectMessages(rows)
}

// Update merges the patch into an existing message. Returns ErrNotFound
// if the id does not exist.
func (s *MessageStore) Update(id string, patch *models.MessagePatch) error {
	msg, err := s.Get(id)
	if err != nil {
		return err
	}
	if msg == nil {
		return fmt.Errorf("message %s: %w", id, ErrNotFound)
	}

	msg.Apply(patch)

	attachmentsJSON, metadataJSON, err := encodeMessageBlobs(msg)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE messages
		SET content = ?, timestamp = ?, model = ?, is_streaming = ?, attachments = ?, metadata = ?
		WHERE id = ?
	`, msg.Content, msg.Timestamp, nullString(msg.Model), nullBool(msg.IsStreaming),
		attachmentsJSON, metadataJSON, id)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	return nil
}

// Delete removes a single message. Nothing depends on a message, so this
// never cascades. Returns ErrNotFound if the id does not exist.
func (s *MessageStore) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM messages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("message %s: %w", id, ErrNotFound)
	}
	return nil
}

// Search returns messages whose content contains the query,
// case-insensitively, ordered by timestamp ascending. A non-empty chatID
// narrows the search to that chat.
func (s *MessageStore) Search(query, chatID string) ([]models.Message, error) {
	q := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE instr(lower(content), lower(?)) > 0`
	args := []interface{}{query}
	if chatID != "" {
		q += " AND chat_id = ?"
		args = append(args, chatID)
	}
	q += " ORDER BY timestamp ASC"

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return collectMessages(rows)
}

// Count returns the number of message rows
func (s *MessageStore) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return n, nil
}

func encodeMessageBlobs(msg *models.Message) (sql.NullString, sql.NullString, error) {
	var attachmentsJSON, metadataJSON sql.NullString

	if len(msg.Attachments) > 0 {
		data, err := json.Marshal(msg.Attachments)
		if err != nil {
			return attachmentsJSON, metadataJSON, fmt.Errorf("failed to encode attachments: %w", err)
		}
		attachmentsJSON = sql.NullString{String: string(data), Valid: true}
	}

	if len(msg.Metadata) > 0 {
		data, err := json.Marshal(msg.Metadata)
		if err != nil {
			return attachmentsJSON, metadataJSON, fmt.Errorf("failed to encode metadata: %w", err)
		}
		metadataJSON = sql.NullString{String: string(data), Valid: true}
	}

	return attachmentsJSON, metadataJSON, nil
}

func scanMessage(row rowScanner) (*models.Message, error) {
	var (
		msg             models.Message
		role            string
		model           sql.NullString
		isStreaming     sql.NullInt64
		attachmentsJSON sql.NullString
		metadataJSON    sql.NullString
	)

	err := row.Scan(&msg.ID, &msg.ChatID, &role, &msg.Content, &msg.Timestamp,
		&model, &isStreaming, &attachmentsJSON, &metadataJSON)
	if err != nil {
		return nil, err
	}

	msg.Role = models.MessageRole(role)
	if model.Valid {
		msg.Model = model.String
	}
	if isStreaming.Valid {
		v := isStreaming.Int64 != 0
		msg.IsStreaming = &v
	}
	if attachmentsJSON.Valid && attachmentsJSON.String != "" {
		if err := json.Unmarshal([]byte(attachmentsJSON.String), &msg.Attachments); err != nil {
			msg.Attachments = nil
		}
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &msg.Metadata); err != nil {
			msg.Metadata = nil
		}
	}

	return &msg, nil
}

func collectMessages(rows *sql.Rows) ([]models.Message, error) {
	var messages []models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}
