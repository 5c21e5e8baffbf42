// ABOUTME: Snapshot export and atomic import across all three tables
// ABOUTME: Supports canonical JSON plus YAML and Markdown file formats
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harper/chatstash/internal/models"
)

// Export reads a point-in-time snapshot of all three tables. The three
// reads are sequential, not one cross-table transaction; consistency is
// best-effort.
func (s *Storage) Export() (*models.Snapshot, error) {
	snapshot := models.NewSnapshot()

	chats, err := s.chats.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to export chats: %w", err)
	}
	if chats != nil {
		snapshot.Chats = chats
	}

	messages, err := s.messages.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to export messages: %w", err)
	}
	if messages != nil {
		snapshot.Messages = messages
	}

	projects, err := s.projects.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to export projects: %w", err)
	}
	if projects != nil {
		snapshot.Projects = projects
	}

	return snapshot, nil
}

// Import atomically replaces the whole store with the snapshot's rows:
// all three tables are cleared and re-filled in one transaction, so a
// failure partway leaves the previous contents intact. The snapshot's
// version field is round-tripped, not validated.
func (s *Storage) Import(snapshot *models.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("nil snapshot")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"chats", "messages", "projects", "project_chats"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("%w: failed to clear %s: %v", ErrTxAborted, table, err)
		}
	}

	for i := range snapshot.Chats {
		if err := insertChatTx(tx, &snapshot.Chats[i]); err != nil {
			return fmt.Errorf("%w: %v", ErrTxAborted, err)
		}
	}
	for i := range snapshot.Messages {
		if err := insertMessageTx(tx, &snapshot.Messages[i]); err != nil {
			return fmt.Errorf("%w: %v", ErrTxAborted, err)
		}
	}
	for i := range snapshot.Projects {
		if err := insertProjectTx(tx, &snapshot.Projects[i]); err != nil {
			return fmt.Errorf("%w: %v", ErrTxAborted, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit import: %v", ErrTxAborted, err)
	}
	return nil
}

// ClearAll atomically empties all three tables
func (s *Storage) ClearAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin clear: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"chats", "messages", "projects", "project_chats"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("%w: failed to clear %s: %v", ErrTxAborted, table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit clear: %v", ErrTxAborted, err)
	}
	return nil
}

// ExportToJSON writes the snapshot to a JSON file
func (s *Storage) ExportToJSON(outputPath string) error {
	snapshot, err := s.Export()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ImportFromJSON reads a snapshot from a JSON file and imports it
func (s *Storage) ImportFromJSON(inputPath string) error {
	data, err := os.ReadFile(inputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s.Import(&snapshot)
}

// ExportToYAML writes the snapshot to a YAML file
func (s *Storage) ExportToYAML(outputPath string) error {
	snapshot, err := s.Export()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}

// ExportToMarkdown writes a human-readable transcript of the snapshot
func (s *Storage) ExportToMarkdown(outputPath string) error {
	snapshot, err := s.Export()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	messagesByChat := make(map[string][]models.Message)
	for _, msg := range snapshot.Messages {
		messagesByChat[msg.ChatID] = append(messagesByChat[msg.ChatID], msg)
	}

	_, _ = fmt.Fprintf(file, "# Chat Export - %s\n\n", time.Now().Format("2006-01-02"))
	_, _ = fmt.Fprintf(file, "Generated: %s\n\n", snapshot.ExportedAt)

	if len(snapshot.Projects) > 0 {
		_, _ = fmt.Fprintln(file, "## Projects")
		_, _ = fmt.Fprintln(file)
		for _, project := range snapshot.Projects {
			_, _ = fmt.Fprintf(file, "- **%s** (%d chats)", project.Name, len(project.ChatIDs))
			if project.Description != "" {
				_, _ = fmt.Fprintf(file, " — %s", project.Description)
			}
			_, _ = fmt.Fprintln(file)
		}
		_, _ = fmt.Fprintln(file)
	}

	for _, chat := range snapshot.Chats {
		_, _ = fmt.Fprintf(file, "## %s\n\n", chat.Title)
		if chat.Model != "" {
			_, _ = fmt.Fprintf(file, "*Model: %s*\n\n", chat.Model)
		}
		for _, msg := range messagesByChat[chat.ID] {
			switch msg.Role {
			case models.RoleUser:
				_, _ = fmt.Fprintf(file, "**User:** %s\n\n", msg.Content)
			case models.RoleAssistant:
				_, _ = fmt.Fprintf(file, "**Assistant:** %s\n\n", msg.Content)
			default:
				_, _ = fmt.Fprintf(file, "**System:** %s\n\n", msg.Content)
			}
		}
		_, _ = fmt.Fprintln(file, "---")
		_, _ = fmt.Fprintln(file)
	}

	return nil
}

// Transaction-scoped row inserts used by Import. Plain INSERTs: the
// tables were just cleared, so conflicts mean a malformed snapshot and
// abort the whole transaction.

func insertChatTx(tx *sql.Tx, chat *models.Chat) error {
	extraJSON, err := marshalNullable(chat.Extra)
	if err != nil {
		return fmt.Errorf("failed to encode chat extras: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO chats (id, title, model, updated_at, creation_time, is_starred, owning_user_id, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, chat.ID, chat.Title, chat.Model, chat.UpdatedAt, chat.CreationTime,
		nullBool(chat.IsStarred), nullString(chat.OwningUserID), extraJSON)
	if err != nil {
		return fmt.Errorf("failed to import chat %s: %w", chat.ID, err)
	}
	return nil
}

func insertMessageTx(tx *sql.Tx, msg *models.Message) error {
	attachmentsJSON, metadataJSON, err := encodeMessageBlobs(msg)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO messages (id, chat_id, role, content, timestamp, model, is_streaming, attachments, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.ChatID, string(msg.Role), msg.Content, msg.Timestamp,
		nullString(msg.Model), nullBool(msg.IsStreaming), attachmentsJSON, metadataJSON)
	if err != nil {
		return fmt.Errorf("failed to import message %s: %w", msg.ID, err)
	}
	return nil
}

func insertProjectTx(tx *sql.Tx, project *models.Project) error {
	_, err := tx.Exec(`
		INSERT INTO projects (id, name, description, owning_user_id, creation_time, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, project.ID, project.Name, nullString(project.Description),
		project.OwningUserID, project.CreationTime, project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to import project %s: %w", project.ID, err)
	}
	return insertProjectChats(tx, project.ID, project.ChatIDs)
}
