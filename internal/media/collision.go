package media

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// maxVersionProbes bounds the _n scan so a pathological directory cannot
// spin forever.
const maxVersionProbes = 100000

// CollisionResolver finds a free destination for a desired filename by
// probing {stem}_1{ext}, {stem}_2{ext}, ... against the filesystem.
// The scan is sequential and deterministic. All methods are goroutine-safe.
//
// A returned destination stays claimed for its source until Release, so
// concurrent tasks in one batch never pick the same free name.
type CollisionResolver struct {
	fs afero.Fs

	mu     sync.Mutex
	claims map[string]string // destination -> source that will move there
}

func NewCollisionResolver(fsys afero.Fs) *CollisionResolver {
	return &CollisionResolver{
		fs:     fsys,
		claims: make(map[string]string),
	}
}

// Resolve returns the path the file at source should move to. A candidate
// equal to source is returned as-is, which the caller treats as a no-op.
// Any other result is claimed until Release is called with it.
func (c *CollisionResolver) Resolve(source, dir, desiredName string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ext := filepath.Ext(desiredName)
	stem := strings.TrimSuffix(desiredName, ext)

	candidate := filepath.Join(dir, desiredName)
	for n := 0; n <= maxVersionProbes; n++ {
		if n > 0 {
			candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		}
		free, err := c.available(source, candidate)
		if err != nil {
			return "", err
		}
		if free {
			if candidate != source {
				c.claims[candidate] = source
			}
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free name for %s after %d attempts", desiredName, maxVersionProbes)
}

// Release drops the claim on dest once its move has finished or been
// abandoned.
func (c *CollisionResolver) Release(dest string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.claims, dest)
}

func (c *CollisionResolver) available(source, candidate string) (bool, error) {
	if candidate == source {
		return true, nil
	}
	if owner, ok := c.claims[candidate]; ok && owner != source {
		return false, nil
	}
	exists, err := afero.Exists(c.fs, candidate)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", candidate, err)
	}
	return !exists, nil
}
