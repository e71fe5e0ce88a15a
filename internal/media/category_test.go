package media_test

import (
	"strings"
	"testing"

	"media-rename/internal/media"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		ext  string
		want media.Category
		ok   bool
	}{
		{ext: ".jpg", want: media.CategoryImage, ok: true},
		{ext: "JPEG", want: media.CategoryImage, ok: true},
		{ext: ".HeIc", want: media.CategoryImage, ok: true},
		{ext: ".nef", want: media.CategoryImage, ok: true},
		{ext: ".MOV", want: media.CategoryVideo, ok: true},
		{ext: "3gp", want: media.CategoryVideo, ok: true},
		{ext: ".m4a", want: media.CategoryAudio, ok: true},
		{ext: ".txt", ok: false},
		{ext: "", ok: false},
		{ext: ".", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()
			got, ok := media.Classify(tt.ext)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Classify(%q) = (%q, %v), want (%q, %v)", tt.ext, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestClassify_EveryExtensionHasOneCategoryInAnyCase(t *testing.T) {
	for _, ext := range media.SupportedExtensions() {
		lower, ok := media.Classify(ext)
		if !ok {
			t.Errorf("Classify(%q) not supported", ext)
			continue
		}
		for _, variant := range []string{strings.ToUpper(ext), "." + ext, "." + strings.ToUpper(ext[:1]) + ext[1:]} {
			got, ok := media.Classify(variant)
			if !ok || got != lower {
				t.Errorf("Classify(%q) = (%q, %v), want (%q, true)", variant, got, ok, lower)
			}
		}
	}
}

func TestCategory_DefaultPrefix(t *testing.T) {
	cases := map[media.Category]string{
		media.CategoryImage: "IMG",
		media.CategoryVideo: "VIDEO",
		media.CategoryAudio: "AUDIO",
	}
	for cat, want := range cases {
		if got := cat.DefaultPrefix(); got != want {
			t.Errorf("%s.DefaultPrefix() = %q, want %q", cat, got, want)
		}
	}
}
