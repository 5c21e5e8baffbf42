// ABOUTME: Versioned SQLite schema for the chat cache
// ABOUTME: Migrations are gated by PRAGMA user_version so on-disk data is never silently misread
package sqlite

import "fmt"

// SchemaVersion is the current schema version. Every structural change to
// tables or indexes appends a migration below and bumps this number.
const SchemaVersion = 2

// migrations[i] upgrades a database at user_version i+1-1 to i+1. Each runs
// in its own transaction together with the version bump.
var migrations = []string{
	// v1: three entity tables plus the multi-entry index table for
	// Project.chatIds. No FOREIGN KEY constraints: the chat -> messages
	// cascade is explicit and project references may dangle.
	`
CREATE TABLE IF NOT EXISTS chats (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    model TEXT NOT NULL DEFAULT '',
    updated_at INTEGER NOT NULL DEFAULT 0,
    creation_time INTEGER NOT NULL DEFAULT 0,
    is_starred INTEGER,
    owning_user_id TEXT
);

CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    chat_id TEXT NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    timestamp INTEGER NOT NULL DEFAULT 0,
    model TEXT,
    is_streaming INTEGER,
    attachments TEXT,
    metadata TEXT
);

CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    description TEXT,
    owning_user_id TEXT NOT NULL,
    creation_time INTEGER NOT NULL DEFAULT 0,
    updated_at INTEGER NOT NULL DEFAULT 0
);

-- Multi-entry index over Project.chatIds: one row per referenced chat,
-- duplicates tolerated. Lets a chat id resolve to containing projects.
CREATE TABLE IF NOT EXISTS project_chats (
    project_id TEXT NOT NULL,
    chat_id TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chats_title ON chats(title);
CREATE INDEX IF NOT EXISTS idx_chats_model ON chats(model);
CREATE INDEX IF NOT EXISTS idx_chats_updated ON chats(updated_at);
CREATE INDEX IF NOT EXISTS idx_chats_created ON chats(creation_time);
CREATE INDEX IF NOT EXISTS idx_chats_starred ON chats(is_starred);
CREATE INDEX IF NOT EXISTS idx_chats_owner ON chats(owning_user_id);
CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id);
CREATE INDEX IF NOT EXISTS idx_messages_role ON messages(role);
CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages(timestamp);
CREATE INDEX IF NOT EXISTS idx_messages_model ON messages(model);
CREATE INDEX IF NOT EXISTS idx_messages_streaming ON messages(is_streaming);
CREATE INDEX IF NOT EXISTS idx_projects_name ON projects(name);
CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owning_user_id);
CREATE INDEX IF NOT EXISTS idx_projects_created ON projects(creation_time);
CREATE INDEX IF NOT EXISTS idx_projects_updated ON projects(updated_at);
CREATE INDEX IF NOT EXISTS idx_project_chats_project ON project_chats(project_id);
CREATE INDEX IF NOT EXISTS idx_project_chats_chat ON project_chats(chat_id);
`,
	// v2: open extras column on chats. Optional flags (archived, temporary,
	// password-protected, ...) live in this JSON map instead of growing
	// ad-hoc columns.
	`
ALTER TABLE chats ADD COLUMN extra TEXT;
`,
}

// migrate brings the database up to SchemaVersion
func (db *DB) migrate() error {
	var version int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, SchemaVersion)
	}

	for v := version; v < SchemaVersion; v++ {
		tx, err := db.conn.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration to v%d: %w", v+1, err)
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration to v%d failed: %w", v+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration to v%d: %w", v+1, err)
		}
	}

	return nil
}
