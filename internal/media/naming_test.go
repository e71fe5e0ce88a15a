package media_test

import (
	"regexp"
	"testing"
	"time"

	"media-rename/internal/media"
	"media-rename/internal/testutil"
)

func TestNameFormatter_Format(t *testing.T) {
	ts := time.Date(2024, 3, 5, 8, 9, 10, 0, time.Local)

	tests := []struct {
		name   string
		cat    media.Category
		prefix string
		ext    string
		want   string
	}{
		{name: "image default prefix", cat: media.CategoryImage, ext: ".jpg", want: "IMG_20240305_080910_ab.jpg"},
		{name: "video default prefix", cat: media.CategoryVideo, ext: ".mp4", want: "VIDEO_20240305_080910_ab.mp4"},
		{name: "audio default prefix", cat: media.CategoryAudio, ext: ".mp3", want: "AUDIO_20240305_080910_ab.mp3"},
		{name: "custom prefix", cat: media.CategoryImage, prefix: "TRIP", ext: ".jpg", want: "TRIP_20240305_080910_ab.jpg"},
		{name: "extension lowercased", cat: media.CategoryImage, ext: ".JPG", want: "IMG_20240305_080910_ab.jpg"},
		{name: "extension without dot", cat: media.CategoryImage, ext: "png", want: "IMG_20240305_080910_ab.png"},
	}

	f := media.NewNameFormatter(testutil.FixedSuffix("ab"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := f.Format(tt.cat, ts, tt.prefix, tt.ext); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNameFormatter_RandomSuffixShape(t *testing.T) {
	ts := time.Date(2024, 3, 5, 8, 9, 10, 0, time.Local)
	f := media.NewNameFormatter(media.RandomSuffix{})
	shape := regexp.MustCompile(`^IMG_20240305_080910_[A-Za-z0-9]{2}\.jpg$`)

	for range 50 {
		if got := f.Format(media.CategoryImage, ts, "", ".jpg"); !shape.MatchString(got) {
			t.Fatalf("Format() = %q, does not match %s", got, shape)
		}
	}
}

func TestNameFormatter_FormatExportUsesUTC(t *testing.T) {
	ts := time.UnixMilli(1700000000000)
	f := media.NewNameFormatter(testutil.FixedSuffix("Zq"))

	got := f.FormatExport(media.CategoryImage, ts, "", ".jpg")
	if want := "IMG_20231114_221320_Zq.jpg"; got != want {
		t.Errorf("FormatExport() = %q, want %q", got, want)
	}
}

func TestParseExportTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    time.Time
		wantErr bool
	}{
		{name: "plain export", file: "mmexport1700000000000.jpg", want: time.UnixMilli(1700000000000).UTC()},
		{name: "full path", file: "/x/y/mmexport1700000000000.mp4", want: time.UnixMilli(1700000000000).UTC()},
		{name: "trailing copy marker", file: "mmexport1700000000000(1).jpg", want: time.UnixMilli(1700000000000).UTC()},
		{name: "upper case", file: "MMEXPORT1700000000000.JPG", want: time.UnixMilli(1700000000000).UTC()},
		{name: "too few digits", file: "mmexport170000.jpg", wantErr: true},
		{name: "too many digits", file: "mmexport17000000000001.jpg", wantErr: true},
		{name: "not an export", file: "IMG_0001.jpg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := media.ParseExportTimestamp(tt.file)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseExportTimestamp() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseExportTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}
