package fs

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"media-rename/internal/media"
)

// MediaLister enumerates media files in a directory on an afero filesystem.
// Only direct children are considered.
type MediaLister struct {
	fs     afero.Fs
	ignore *IgnoreMatcher
}

// NewMediaLister creates a lister that always skips names matching ignore.
func NewMediaLister(fsys afero.Fs, ignore []string) *MediaLister {
	return &MediaLister{
		fs:     fsys,
		ignore: NewIgnoreMatcher(ignore),
	}
}

// List returns the absolute paths of regular files directly inside dir whose
// extension case-insensitively matches one of exts, sorted by name.
// Patterns from dir/.mrnignore are applied on top of the configured ones.
func (l *MediaLister) List(dir string, exts []string) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		wanted[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	local, err := ParseIgnoreFile(l.fs, filepath.Join(absDir, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	matcher := l.ignore.With(local)

	entries, err := afero.ReadDir(l.fs, absDir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if !wanted[ext] || matcher.Match(name) {
			continue
		}
		paths = append(paths, filepath.Join(absDir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

// Compile-time check that MediaLister implements media.Lister.
var _ media.Lister = (*MediaLister)(nil)

// Compile-time check that StatxBirthTimer implements media.BirthTimer.
var _ media.BirthTimer = StatxBirthTimer{}
