// Package archive stores snapshots of the rename ledger after each run that
// changed it, on the local filesystem or in S3, optionally age-encrypted.
package archive

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// SnapshotSuffix is appended to the run ID to form a snapshot key.
const SnapshotSuffix = ".ledger"

// Store persists snapshot blobs under a key.
type Store interface {
	// Put stores exactly size bytes read from r under key. Storing the
	// same key twice replaces the earlier blob.
	Put(ctx context.Context, key string, r io.Reader, size int64) error

	// Location describes where blobs end up, for log lines.
	Location() string
}

// NopStore drops every snapshot. It backs type = "none".
type NopStore struct{}

var _ Store = NopStore{}

func (NopStore) Put(_ context.Context, _ string, r io.Reader, _ int64) error {
	_, err := io.Copy(io.Discard, r)
	return err
}

func (NopStore) Location() string { return "none" }

// SnapshotLedger copies the ledger at ledgerPath into store under
// "<runID>.ledger" and returns the key actually written.
func SnapshotLedger(ctx context.Context, store Store, fsys afero.Fs, ledgerPath, runID string) (string, error) {
	f, err := fsys.Open(ledgerPath)
	if err != nil {
		return "", fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat ledger: %w", err)
	}

	key := runID + SnapshotSuffix
	if ks, ok := store.(interface{ KeyFor(string) string }); ok {
		key = ks.KeyFor(key)
	}

	if err := store.Put(ctx, key, f, info.Size()); err != nil {
		return "", fmt.Errorf("storing snapshot %s: %w", key, err)
	}
	return key, nil
}
