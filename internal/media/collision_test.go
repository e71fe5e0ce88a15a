package media_test

import (
	"testing"
	"time"

	"github.com/spf13/afero"

	"media-rename/internal/media"
	"media-rename/internal/testutil"
)

func TestCollisionResolver_Resolve(t *testing.T) {
	mtime := time.Date(2024, 3, 5, 8, 9, 10, 0, time.Local)

	tests := []struct {
		name     string
		existing []string
		source   string
		want     string
	}{
		{
			name:   "free name returned unchanged",
			source: "/p/a.jpg",
			want:   "/p/IMG_20240305_080910_ab.jpg",
		},
		{
			name:     "first version suffix",
			existing: []string{"/p/IMG_20240305_080910_ab.jpg"},
			source:   "/p/a.jpg",
			want:     "/p/IMG_20240305_080910_ab_1.jpg",
		},
		{
			name:     "probes sequentially past occupied versions",
			existing: []string{"/p/IMG_20240305_080910_ab.jpg", "/p/IMG_20240305_080910_ab_1.jpg", "/p/IMG_20240305_080910_ab_2.jpg"},
			source:   "/p/a.jpg",
			want:     "/p/IMG_20240305_080910_ab_3.jpg",
		},
		{
			name:     "gap is filled first",
			existing: []string{"/p/IMG_20240305_080910_ab.jpg", "/p/IMG_20240305_080910_ab_2.jpg"},
			source:   "/p/a.jpg",
			want:     "/p/IMG_20240305_080910_ab_1.jpg",
		},
		{
			name:     "source occupying the name is a no-op",
			existing: []string{"/p/IMG_20240305_080910_ab.jpg"},
			source:   "/p/IMG_20240305_080910_ab.jpg",
			want:     "/p/IMG_20240305_080910_ab.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fsys := afero.NewMemMapFs()
			for _, p := range append([]string{tt.source}, tt.existing...) {
				testutil.WriteMediaFile(t, fsys, p, mtime)
			}

			got, err := media.NewCollisionResolver(fsys).Resolve(tt.source, "/p", "IMG_20240305_080910_ab.jpg")
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
			if got != tt.source {
				if exists, _ := afero.Exists(fsys, got); exists {
					t.Errorf("Resolve() returned existing path %q", got)
				}
			}
		})
	}
}
