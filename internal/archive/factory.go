package archive

import (
	"context"
	"fmt"

	"media-rename/internal/config"
)

// NewStoreFromConfig creates a Store based on the archive config type,
// wrapped in an AgeStore when a public key is configured.
func NewStoreFromConfig(ctx context.Context, cfg config.ArchiveConfig) (Store, error) {
	var store Store
	switch cfg.Type {
	case "none", "":
		return NopStore{}, nil
	case "memory":
		store = NewMemoryStore()
	case "filesystem":
		if cfg.Root == "" {
			return nil, fmt.Errorf("filesystem archive requires root to be set")
		}
		fsStore, err := NewFileSystemStore(cfg.Root)
		if err != nil {
			return nil, err
		}
		store = fsStore
	case "s3":
		s3Store, err := NewS3StoreFromConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store = s3Store
	default:
		return nil, fmt.Errorf("unknown archive type: %s", cfg.Type)
	}

	if cfg.PublicKeyPath == "" {
		return store, nil
	}
	recipient, err := LoadRecipient(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("loading archive public key: %w", err)
	}
	return NewAgeStore(store, recipient), nil
}
