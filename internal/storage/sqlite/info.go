// ABOUTME: Storage usage reporting with exact row counts and advisory byte figures
// ABOUTME: Byte usage comes from SQLite page accounting and may be zero in memory
package sqlite

import "fmt"

// StorageInfo describes the cache's current footprint. Row counts are
// exact; BytesUsed and BytesQuota are advisory figures callers must not
// treat as enforced limits. BytesQuota is zero unless configured.
type StorageInfo struct {
	ChatCount    int64 `json:"chatCount"`
	MessageCount int64 `json:"messageCount"`
	ProjectCount int64 `json:"projectCount"`
	BytesUsed    int64 `json:"bytesUsed"`
	BytesQuota   int64 `json:"bytesQuota"`
}

// StorageInfo returns current row counts and byte usage
func (s *Storage) StorageInfo() (*StorageInfo, error) {
	info := &StorageInfo{BytesQuota: s.quotaBytes}

	var err error
	if info.ChatCount, err = s.chats.Count(); err != nil {
		return nil, err
	}
	if info.MessageCount, err = s.messages.Count(); err != nil {
		return nil, err
	}
	if info.ProjectCount, err = s.projects.Count(); err != nil {
		return nil, err
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return nil, fmt.Errorf("failed to read page count: %w", err)
	}
	if err := s.db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return nil, fmt.Errorf("failed to read page size: %w", err)
	}
	info.BytesUsed = pageCount * pageSize

	return info, nil
}
