// Package ledger persists the rename history as a plain text file, one
// "<original>|<renamed>" record per line.
package ledger

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"media-rename/internal/media"
)

// DefaultFileName is the ledger file created in the working directory.
const DefaultFileName = ".rename-history"

const fieldSeparator = "|"

// maxLineLen bounds a single ledger line. Longer lines are skipped as malformed.
const maxLineLen = 64 * 1024

// FileLedger is an append-only ledger file on an afero filesystem.
// Appends from concurrent goroutines are serialized; each record reaches the
// file as a single write of a complete line.
type FileLedger struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

// NewFileLedger creates a ledger backed by the file at path. The file is
// created lazily on first append.
func NewFileLedger(fsys afero.Fs, path string) *FileLedger {
	return &FileLedger{fs: fsys, path: path}
}

// Path returns the ledger file location.
func (l *FileLedger) Path() string {
	return l.path
}

// Append adds rec as one newline-terminated line and syncs it to disk.
func (l *FileLedger) Append(rec media.RenameRecord) error {
	line, err := formatRecord(rec)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.fs.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}

	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("appending to ledger: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing ledger: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing ledger: %w", err)
	}
	return nil
}

// LoadAll parses the ledger. A missing file is an empty ledger. Lines that
// do not split into exactly two non-empty fields, or that exceed maxLineLen,
// are skipped.
func (l *FileLedger) LoadAll() ([]media.RenameRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.fs.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	var records []media.RenameRecord
	r := bufio.NewReaderSize(f, maxLineLen)
	overlong := false
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading ledger: %w", err)
		}
		// A line longer than the buffer cannot hold two valid paths; drop
		// every piece of it up to the next newline.
		if isPrefix {
			overlong = true
			continue
		}
		if overlong {
			overlong = false
			continue
		}
		rec, ok := parseRecord(string(chunk))
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Rewrite replaces the ledger contents with recs using a temp file in the
// same directory followed by a rename.
func (l *FileLedger) Rewrite(recs []media.RenameRecord) error {
	var buf bytes.Buffer
	for _, rec := range recs {
		line, err := formatRecord(rec)
		if err != nil {
			return err
		}
		buf.WriteString(line)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tmp, err := afero.TempFile(l.fs, filepath.Dir(l.path), ".ledger-*")
	if err != nil {
		return fmt.Errorf("creating temp ledger: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			l.fs.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp ledger: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp ledger: %w", err)
	}

	if err := l.fs.Rename(tmpPath, l.path); err != nil {
		return fmt.Errorf("replacing ledger: %w", err)
	}

	success = true
	return nil
}

func formatRecord(rec media.RenameRecord) (string, error) {
	for _, p := range []string{rec.OriginalPath, rec.NewPath} {
		if !media.Recordable(p) {
			return "", fmt.Errorf("%w: %q", media.ErrUnrecordablePath, p)
		}
	}
	return rec.OriginalPath + fieldSeparator + rec.NewPath + "\n", nil
}

func parseRecord(line string) (media.RenameRecord, bool) {
	fields := strings.Split(strings.TrimSuffix(line, "\r"), fieldSeparator)
	if len(fields) != 2 || fields[0] == "" || fields[1] == "" {
		return media.RenameRecord{}, false
	}
	return media.RenameRecord{OriginalPath: fields[0], NewPath: fields[1]}, true
}

// Compile-time check that FileLedger implements media.Ledger.
var _ media.Ledger = (*FileLedger)(nil)
