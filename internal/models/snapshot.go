// ABOUTME: Snapshot is the export/import payload covering all three tables
// ABOUTME: Tagged with a wall-clock timestamp and a format version string
package models

import "time"

// SnapshotVersion is the current export format version
const SnapshotVersion = "1.0"

// Snapshot is a point-in-time copy of the whole cache. The read is
// best-effort consistent; importing one is atomic (clear plus bulk insert).
// The version field is round-tripped, not validated on import.
type Snapshot struct {
	Chats      []Chat    `json:"chats" yaml:"chats"`
	Messages   []Message `json:"messages" yaml:"messages"`
	Projects   []Project `json:"projects" yaml:"projects"`
	ExportedAt string    `json:"exportedAt" yaml:"exported_at"`
	Version    string    `json:"version" yaml:"version"`
}

// NewSnapshot creates an empty snapshot stamped with the current time
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Chats:      []Chat{},
		Messages:   []Message{},
		Projects:   []Project{},
		ExportedAt: time.Now().Format(time.RFC3339),
		Version:    SnapshotVersion,
	}
}

// Counts returns the row counts per table, in chat/message/project order
func (s *Snapshot) Counts() (int, int, int) {
	return len(s.Chats), len(s.Messages), len(s.Projects)
}
