package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"media-rename/internal/media"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := confirm(strings.NewReader(tt.input), &out, "Restore 2 file(s)?")
			if err != nil {
				t.Fatalf("confirm() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if out.String() != "Restore 2 file(s)? [y/N] " {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

func TestPrintReport(t *testing.T) {
	report := &media.BatchReport{Results: []media.Result{
		{Source: "/p/a.jpg", Destination: "/p/IMG_20240305_080910_ab.jpg", Status: media.StatusRenamed},
		{Source: "/p/IMG_20240305_080910_cd.jpg", Destination: "/p/IMG_20240305_080910_cd.jpg", Status: media.StatusUnchanged},
		{Source: "/p/notes.txt", Status: media.StatusSkipped, Err: errors.New("unsupported file type")},
		{Source: "/p/locked.jpg", Status: media.StatusFailed, Err: errors.New("permission denied")},
	}}

	var out bytes.Buffer
	printReport(&out, report)
	got := out.String()

	for _, want := range []string{
		"renamed    /p/a.jpg -> IMG_20240305_080910_ab.jpg\n",
		"skipped    /p/notes.txt (unsupported file type)\n",
		"failed     /p/locked.jpg: permission denied\n",
		"1 renamed, 0 planned, 1 unchanged, 1 skipped, 1 failed\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "_cd.jpg") {
		t.Errorf("unchanged file printed:\n%s", got)
	}
}
