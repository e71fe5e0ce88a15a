//go:build linux

package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStatxBirthTimer(t *testing.T) {
	t.Run("missing file reports not ok", func(t *testing.T) {
		t.Parallel()
		if _, ok := (StatxBirthTimer{}).BirthTime(filepath.Join(t.TempDir(), "gone.jpg"), nil); ok {
			t.Error("expected ok=false for a missing file")
		}
	})

	t.Run("fresh file is born recently when supported", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "new.jpg")
		before := time.Now().Add(-time.Minute)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		bt, ok := (StatxBirthTimer{}).BirthTime(path, nil)
		if !ok {
			t.Skip("filesystem does not record birth time")
		}
		if bt.Before(before) || bt.After(time.Now().Add(time.Minute)) {
			t.Errorf("birth time %v not near now", bt)
		}
	})
}
