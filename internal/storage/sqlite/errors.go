// ABOUTME: Error kinds surfaced by write operations on the chat cache
// ABOUTME: Read paths never return these; they degrade to empty results
package sqlite

import "errors"

var (
	// ErrNotFound is returned when an update or delete targets a row
	// that does not exist. Point lookups return (nil, nil) instead.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID is returned when an add targets an id that
	// already exists.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrTxAborted wraps failures of multi-table transactions (cascade
	// delete, clear-all, import) that were rolled back.
	ErrTxAborted = errors.New("transaction aborted")
)
