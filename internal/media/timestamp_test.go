package media_test

import (
	"testing"
	"time"

	"github.com/spf13/afero"

	"media-rename/internal/media"
	"media-rename/internal/testutil"
)

func TestTimestampResolver_Resolve(t *testing.T) {
	mtime := time.Date(2023, 1, 2, 3, 4, 5, 0, time.Local)
	btime := time.Date(2022, 6, 7, 8, 9, 10, 0, time.Local)
	capture := time.Date(2021, 12, 24, 18, 30, 0, 0, time.Local)

	tests := []struct {
		name        string
		path        string
		cat         media.Category
		useEmbedded bool
		exif        map[string]time.Time
		exifErr     bool
		birth       map[string]time.Time
		want        time.Time
	}{
		{
			name:        "embedded capture time wins for images",
			path:        "/p/a.jpg",
			cat:         media.CategoryImage,
			useEmbedded: true,
			exif:        map[string]time.Time{"/p/a.jpg": capture},
			birth:       map[string]time.Time{"/p/a.jpg": btime},
			want:        capture,
		},
		{
			name:  "embedded metadata ignored when not requested",
			path:  "/p/a.jpg",
			cat:   media.CategoryImage,
			exif:  map[string]time.Time{"/p/a.jpg": capture},
			birth: map[string]time.Time{"/p/a.jpg": btime},
			want:  btime,
		},
		{
			name:        "embedded metadata ignored for video",
			path:        "/p/a.mp4",
			cat:         media.CategoryVideo,
			useEmbedded: true,
			exif:        map[string]time.Time{"/p/a.mp4": capture},
			want:        mtime,
		},
		{
			name:        "extraction error falls back to birth time",
			path:        "/p/a.jpg",
			cat:         media.CategoryImage,
			useEmbedded: true,
			exifErr:     true,
			birth:       map[string]time.Time{"/p/a.jpg": btime},
			want:        btime,
		},
		{
			name:        "missing metadata falls back to birth time",
			path:        "/p/a.jpg",
			cat:         media.CategoryImage,
			useEmbedded: true,
			birth:       map[string]time.Time{"/p/a.jpg": btime},
			want:        btime,
		},
		{
			name:  "epoch-zero birth time falls back to mtime",
			path:  "/p/a.jpg",
			cat:   media.CategoryImage,
			birth: map[string]time.Time{"/p/a.jpg": time.Unix(0, 0)},
			want:  mtime,
		},
		{
			name: "no birth time falls back to mtime",
			path: "/p/a.jpg",
			cat:  media.CategoryImage,
			want: mtime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fsys := afero.NewMemMapFs()
			testutil.WriteMediaFile(t, fsys, tt.path, mtime)

			ex := testutil.NewStubExtractor()
			for p, ts := range tt.exif {
				ex.Times[p] = ts
			}
			if tt.exifErr {
				ex.Errors[tt.path] = true
			}

			r := media.NewTimestampResolver(fsys, ex, testutil.StubBirthTimer(tt.birth), media.NewNopLogger())
			got, err := r.Resolve(tt.path, tt.cat, tt.useEmbedded)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimestampResolver_VanishedFile(t *testing.T) {
	r := media.NewTimestampResolver(afero.NewMemMapFs(), nil, nil, media.NewNopLogger())
	if _, err := r.Resolve("/p/gone.jpg", media.CategoryImage, true); err == nil {
		t.Fatal("expected error for a file that cannot be stat'ed")
	}
}
