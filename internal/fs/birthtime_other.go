//go:build !linux && !darwin

package fs

import (
	"io/fs"
	"time"
)

// StatxBirthTimer reports no creation time on platforms without a known
// source for it; callers fall back to modification time.
type StatxBirthTimer struct{}

func (StatxBirthTimer) BirthTime(string, fs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
