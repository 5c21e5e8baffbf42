// ABOUTME: Project row operations for the SQLite cache
// ABOUTME: Maintains the project_chats multi-entry index alongside each project row
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/harper/chatstash/internal/models"
)

// ProjectStore handles project persistence
type ProjectStore struct {
	db *DB
}

// NewProjectStore creates a new ProjectStore
func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{db: db}
}

const projectColumns = "id, name, description, owning_user_id, creation_time, updated_at"

// Insert adds a new project row and its chat reference entries in one
// transaction. Returns ErrDuplicateID if the id exists.
func (s *ProjectStore) Insert(project *models.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO projects (id, name, description, owning_user_id, creation_time, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, project.ID, project.Name, nullString(project.Description),
		project.OwningUserID, project.CreationTime, project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check insert result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %s: %w", project.ID, ErrDuplicateID)
	}

	if err := insertProjectChats(tx, project.ID, project.ChatIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit insert: %w", err)
	}
	return nil
}

// Get retrieves a project by id, including its chat references.
// Returns (nil, nil) if absent.
func (s *ProjectStore) Get(id string) (*models.Project, error) {
	row := s.db.QueryRow("SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	project, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	chatIDs, err := s.chatIDsFor(id)
	if err != nil {
		return nil, err
	}
	project.ChatIDs = chatIDs
	return project, nil
}

// ListAll returns every project ordered by updated_at descending
func (s *ProjectStore) ListAll() ([]models.Project, error) {
	rows, err := s.db.Query("SELECT " + projectColumns + " FROM projects ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return s.collectWithChatIDs(rows)
}

// Update merges the patch into an existing project. A patched ChatIDs set
// replaces the reference entries wholesale in the same transaction.
// Returns ErrNotFound if the id does not exist.
func (s *ProjectStore) Update(id string, patch *models.ProjectPatch) error {
	project, err := s.Get(id)
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	project.Apply(patch)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		UPDATE projects
		SET name = ?, description = ?, owning_user_id = ?, updated_at = ?
		WHERE id = ?
	`, project.Name, nullString(project.Description), project.OwningUserID,
		project.UpdatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	if patch.ChatIDs != nil {
		if _, err := tx.Exec("DELETE FROM project_chats WHERE project_id = ?", id); err != nil {
			return fmt.Errorf("failed to clear project chat refs: %w", err)
		}
		if err := insertProjectChats(tx, id, project.ChatIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit update: %w", err)
	}
	return nil
}

// Delete removes a project row and its own chat reference entries.
// The referenced chats are untouched; projects hold references, not
// ownership. Returns ErrNotFound if the id does not exist.
func (s *ProjectStore) Delete(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec("DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	if _, err := tx.Exec("DELETE FROM project_chats WHERE project_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete project chat refs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// Search returns projects whose name or description contains the query,
// case-insensitively, ordered by updated_at descending.
func (s *ProjectStore) Search(query string) ([]models.Project, error) {
	rows, err := s.db.Query(`
		SELECT `+projectColumns+`
		FROM projects
		WHERE instr(lower(name), lower(?)) > 0
		   OR instr(lower(coalesce(description, '')), lower(?)) > 0
		ORDER BY updated_at DESC
	`, query, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search projects: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return s.collectWithChatIDs(rows)
}

// ForChat returns the projects whose reference set contains the given
// chat id, via the multi-entry index.
func (s *ProjectStore) ForChat(chatID string) ([]models.Project, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT p.id, p.name, p.description, p.owning_user_id, p.creation_time, p.updated_at
		FROM projects p
		JOIN project_chats pc ON pc.project_id = p.id
		WHERE pc.chat_id = ?
		ORDER BY p.updated_at DESC
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to find projects for chat: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return s.collectWithChatIDs(rows)
}

// Count returns the number of project rows
func (s *ProjectStore) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return n, nil
}

func (s *ProjectStore) chatIDsFor(projectID string) ([]string, error) {
	rows, err := s.db.Query("SELECT chat_id FROM project_chats WHERE project_id = ?", projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project chat refs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan project chat ref: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *ProjectStore) collectWithChatIDs(rows *sql.Rows) ([]models.Project, error) {
	var projects []models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range projects {
		chatIDs, err := s.chatIDsFor(projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].ChatIDs = chatIDs
	}
	return projects, nil
}

func insertProjectChats(tx *sql.Tx, projectID string, chatIDs []string) error {
	for _, chatID := range chatIDs {
		if _, err := tx.Exec("INSERT INTO project_chats (project_id, chat_id) VALUES (?, ?)", projectID, chatID); err != nil {
			return fmt.Errorf("failed to insert project chat ref: %w", err)
		}
	}
	return nil
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		project     models.Project
		description sql.NullString
	)

	err := row.Scan(&project.ID, &project.Name, &description,
		&project.OwningUserID, &project.CreationTime, &project.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		project.Description = description.String
	}
	return &project, nil
}
