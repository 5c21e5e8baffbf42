// ABOUTME: Shared scan and null-handling helpers for the SQLite stores
// ABOUTME: Optional fields round-trip through NULL columns and JSON blobs
package sqlite

import (
	"database/sql"
	"encoding/json"
)

// nullString converts an empty string to a NULL column value
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullBool converts an optional bool to a NULL-able integer column value
func nullBool(b *bool) sql.NullInt64 {
	if b == nil {
		return sql.NullInt64{}
	}
	v := int64(0)
	if *b {
		v = 1
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

// marshalNullable JSON-encodes v, mapping empty values to NULL
func marshalNullable(v interface{}) (sql.NullString, error) {
	switch val := v.(type) {
	case nil:
		return sql.NullString{}, nil
	case map[string]any:
		if len(val) == 0 {
			return sql.NullString{}, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
