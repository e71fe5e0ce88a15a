package testutil

import (
	"errors"
	"io/fs"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
)

// FixedSuffix always returns the same disambiguation suffix, making
// formatted names fully predictable.
type FixedSuffix string

func (s FixedSuffix) Suffix() string { return string(s) }

// StubExtractor serves capture times from a map keyed by path.
// Paths listed in Errors fail extraction with a generic error.
type StubExtractor struct {
	mu     sync.Mutex
	Times  map[string]time.Time
	Errors map[string]bool
	calls  int
}

func NewStubExtractor() *StubExtractor {
	return &StubExtractor{
		Times:  make(map[string]time.Time),
		Errors: make(map[string]bool),
	}
}

func (e *StubExtractor) CaptureTime(path string) (time.Time, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.Errors[path] {
		return time.Time{}, false, errors.New("corrupt exif block")
	}
	t, ok := e.Times[path]
	return t, ok, nil
}

// Calls returns how many times CaptureTime was invoked.
func (e *StubExtractor) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// StubBirthTimer serves creation times from a map keyed by path.
type StubBirthTimer map[string]time.Time

func (b StubBirthTimer) BirthTime(path string, _ fs.FileInfo) (time.Time, bool) {
	t, ok := b[path]
	return t, ok
}

// WriteMediaFile creates path with placeholder content and sets its
// modification time.
func WriteMediaFile(t testing.TB, fsys afero.Fs, path string, mtime time.Time) {
	t.Helper()
	if err := afero.WriteFile(fsys, path, []byte("media"), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	if err := fsys.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("setting times on %s: %v", path, err)
	}
}

// FailingRenameFs wraps an afero.Fs and fails Rename for listed sources.
type FailingRenameFs struct {
	afero.Fs
	mu    sync.Mutex
	fails map[string]bool
}

func NewFailingRenameFs(base afero.Fs, sources ...string) *FailingRenameFs {
	fails := make(map[string]bool, len(sources))
	for _, s := range sources {
		fails[s] = true
	}
	return &FailingRenameFs{Fs: base, fails: fails}
}

func (f *FailingRenameFs) Rename(oldname, newname string) error {
	f.mu.Lock()
	fail := f.fails[oldname]
	f.mu.Unlock()
	if fail {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: os.ErrPermission}
	}
	return f.Fs.Rename(oldname, newname)
}
