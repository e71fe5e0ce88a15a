package media

import "strings"

// RenameRecord is one committed rename. It is written the moment the move
// succeeds and is only removed after that same move has been undone.
type RenameRecord struct {
	OriginalPath string
	NewPath      string
}

// Ledger is the durable history of renames that undo replays.
type Ledger interface {
	// Append durably adds one record without disturbing earlier ones.
	// Concurrent calls must not interleave partial records.
	Append(rec RenameRecord) error

	// LoadAll returns every well-formed record in write order.
	// Malformed entries are skipped.
	LoadAll() ([]RenameRecord, error)

	// Rewrite atomically replaces the ledger with exactly recs.
	Rewrite(recs []RenameRecord) error
}

// Recordable reports whether p fits in a ledger line: non-empty, with no
// field separator or line break.
func Recordable(p string) bool {
	return p != "" && !strings.ContainsAny(p, "|\n\r")
}
