package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
)

// jpegWithDateTimeOriginal builds a minimal JPEG whose APP1 segment holds a
// big-endian TIFF block with IFD0 -> Exif IFD -> DateTimeOriginal.
func jpegWithDateTimeOriginal(value string) []byte {
	var tiff bytes.Buffer
	be := binary.BigEndian
	w16 := func(v uint16) { binary.Write(&tiff, be, v) }
	w32 := func(v uint32) { binary.Write(&tiff, be, v) }

	tiff.WriteString("MM")
	w16(42)
	w32(8) // IFD0 offset

	// IFD0: one entry pointing at the Exif IFD at offset 26.
	w16(1)
	w16(0x8769)
	w16(4)
	w32(1)
	w32(26)
	w32(0)

	// Exif IFD: DateTimeOriginal, ASCII, 20 bytes at offset 44.
	w16(1)
	w16(0x9003)
	w16(2)
	w32(20)
	w32(44)
	w32(0)

	str := make([]byte, 20)
	copy(str, value)
	tiff.Write(str)

	return jpegWithTIFF(tiff.Bytes())
}

// jpegWithTIFF wraps a TIFF block in a JPEG APP1 Exif segment.
func jpegWithTIFF(tiff []byte) []byte {
	var out bytes.Buffer
	out.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	binary.Write(&out, binary.BigEndian, uint16(2+6+len(tiff)))
	out.WriteString("Exif\x00\x00")
	out.Write(tiff)
	out.Write([]byte{0xFF, 0xD9})
	return out.Bytes()
}

// tiffWithChain builds a big-endian TIFF with an IFD at 8 holding one entry
// and an empty IFD at 26. first is the header's IFD offset; next0 and next1
// are the next-IFD offsets of the two directories.
func tiffWithChain(first, next0, next1 uint32) []byte {
	var b bytes.Buffer
	w16 := func(v uint16) { binary.Write(&b, binary.BigEndian, v) }
	w32 := func(v uint32) { binary.Write(&b, binary.BigEndian, v) }

	b.WriteString("MM")
	w16(42)
	w32(first)

	w16(1)
	w16(0x0110) // Model, ASCII, inline
	w16(2)
	w32(4)
	b.WriteString("cam\x00")
	w32(next0)

	w16(0)
	w32(next1)
	return b.Bytes()
}

func TestGoexifExtractor_CaptureTime(t *testing.T) {
	t.Run("reads DateTimeOriginal", func(t *testing.T) {
		t.Parallel()
		fsys := afero.NewMemMapFs()
		if err := afero.WriteFile(fsys, "/p/a.jpg", jpegWithDateTimeOriginal("2021:12:24 18:30:00"), 0644); err != nil {
			t.Fatal(err)
		}

		got, ok, err := NewGoexifExtractor(fsys).CaptureTime("/p/a.jpg")
		if err != nil {
			t.Fatalf("CaptureTime() error = %v", err)
		}
		if !ok {
			t.Fatal("CaptureTime() ok = false, want true")
		}
		want := time.Date(2021, 12, 24, 18, 30, 0, 0, time.Local)
		if !got.Equal(want) {
			t.Errorf("CaptureTime() = %v, want %v", got, want)
		}
	})

	t.Run("unset camera clock reports no metadata", func(t *testing.T) {
		t.Parallel()
		fsys := afero.NewMemMapFs()
		if err := afero.WriteFile(fsys, "/p/a.jpg", jpegWithDateTimeOriginal("0000:00:00 00:00:00"), 0644); err != nil {
			t.Fatal(err)
		}

		_, ok, err := NewGoexifExtractor(fsys).CaptureTime("/p/a.jpg")
		if err != nil || ok {
			t.Errorf("CaptureTime() = (ok=%v, err=%v), want (false, nil)", ok, err)
		}
	})

	t.Run("file without exif is an error", func(t *testing.T) {
		t.Parallel()
		fsys := afero.NewMemMapFs()
		if err := afero.WriteFile(fsys, "/p/a.png", []byte("\x89PNG\r\n\x1a\nnot really"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, ok, err := NewGoexifExtractor(fsys).CaptureTime("/p/a.png"); err == nil || ok {
			t.Errorf("CaptureTime() = (ok=%v, err=%v), want an error", ok, err)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()
		if _, _, err := NewGoexifExtractor(afero.NewMemMapFs()).CaptureTime("/p/none.jpg"); err == nil {
			t.Error("expected error for a missing file")
		}
	})
}

func TestGoexifExtractor_RejectsBrokenDirectoryChains(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "directories pointing at each other", data: jpegWithTIFF(tiffWithChain(8, 26, 8)), want: errIFDCycle},
		{name: "directory pointing at itself", data: jpegWithTIFF(tiffWithChain(8, 8, 0)), want: errIFDCycle},
		{name: "loop in a bare tiff", data: tiffWithChain(8, 26, 8), want: errIFDCycle},
		{name: "next directory past the block", data: jpegWithTIFF(tiffWithChain(8, 4096, 0)), want: errIFDOutRange},
		{name: "negative first offset", data: jpegWithTIFF(tiffWithChain(0xFFFFFFF0, 0, 0)), want: errIFDOutRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fsys := afero.NewMemMapFs()
			if err := afero.WriteFile(fsys, "/p/a.jpg", tt.data, 0644); err != nil {
				t.Fatal(err)
			}

			type outcome struct {
				ok  bool
				err error
			}
			done := make(chan outcome, 1)
			go func() {
				_, ok, err := NewGoexifExtractor(fsys).CaptureTime("/p/a.jpg")
				done <- outcome{ok, err}
			}()

			select {
			case got := <-done:
				if got.ok || !errors.Is(got.err, tt.want) {
					t.Errorf("CaptureTime() = (ok=%v, err=%v), want error %v", got.ok, got.err, tt.want)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("CaptureTime() did not return")
			}
		})
	}
}

func TestGoexifExtractor_AcceptsTerminatedChain(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/p/a.jpg", jpegWithTIFF(tiffWithChain(8, 26, 0)), 0644); err != nil {
		t.Fatal(err)
	}

	_, ok, err := NewGoexifExtractor(fsys).CaptureTime("/p/a.jpg")
	if err != nil || ok {
		t.Errorf("CaptureTime() = (ok=%v, err=%v), want (false, nil)", ok, err)
	}
}

func TestParseExifTime(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Time
		ok      bool
		wantErr bool
	}{
		{raw: "2024:03:05 08:09:10", want: time.Date(2024, 3, 5, 8, 9, 10, 0, time.Local), ok: true},
		{raw: "2024:03:05 08:09:10\x00", want: time.Date(2024, 3, 5, 8, 9, 10, 0, time.Local), ok: true},
		{raw: "2024:03:05 08:09:10.123+02:00", want: time.Date(2024, 3, 5, 8, 9, 10, 0, time.Local), ok: true},
		{raw: "0000:00:00 00:00:00"},
		{raw: "   "},
		{raw: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, ok, err := parseExifTime(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseExifTime() error = %v, wantErr %v", err, tt.wantErr)
			}
			if ok != tt.ok || (ok && !got.Equal(tt.want)) {
				t.Errorf("parseExifTime() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}
