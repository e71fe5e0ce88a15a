package media

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// exportPattern matches names produced by the messaging app's media export,
// e.g. mmexport1700000000000.jpg, which embed a millisecond Unix timestamp.
var exportPattern = regexp.MustCompile(`(?i)^mmexport(\d{13})(?:\D|$)`)

// ParseExportTimestamp extracts the millisecond timestamp embedded in a
// platform-export filename. It returns ErrExportNameUnparsable when the
// name does not follow the pattern.
func ParseExportTimestamp(name string) (time.Time, error) {
	m := exportPattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrExportNameUnparsable, name)
	}
	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %w", ErrExportNameUnparsable, name, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}
