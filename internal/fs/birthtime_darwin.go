//go:build darwin

package fs

import (
	"io/fs"
	"syscall"
	"time"
)

// StatxBirthTimer reads file creation time from the stat birthtime field.
type StatxBirthTimer struct{}

func (StatxBirthTimer) BirthTime(_ string, info fs.FileInfo) (time.Time, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec), true
}
