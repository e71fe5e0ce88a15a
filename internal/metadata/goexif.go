package metadata

import (
	"bytes"
	"fmt"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/afero"
)

// GoexifExtractor decodes EXIF blocks in pure Go. It covers JPEG and TIFF
// based formats; others report no metadata.
type GoexifExtractor struct {
	fs afero.Fs
}

func NewGoexifExtractor(fsys afero.Fs) *GoexifExtractor {
	return &GoexifExtractor{fs: fsys}
}

// CaptureTime returns DateTimeOriginal, or DateTimeDigitized when the
// original is absent. Blocks whose directory chain loops or leaves the
// block are rejected before decoding.
func (e *GoexifExtractor) CaptureTime(path string) (time.Time, bool, error) {
	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading %s: %w", path, err)
	}

	block, err := tiffBlock(data)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("decoding exif: %w", err)
	}
	if err := checkIFDChain(block); err != nil {
		return time.Time{}, false, fmt.Errorf("decoding exif: %w", err)
	}

	x, err := exif.Decode(bytes.NewReader(block))
	if x == nil {
		return time.Time{}, false, fmt.Errorf("decoding exif: %w", err)
	}

	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		raw, err := tag.StringVal()
		if err != nil {
			continue
		}
		t, ok, err := parseExifTime(raw)
		if err != nil || !ok {
			continue
		}
		return t, true, nil
	}
	return time.Time{}, false, nil
}

func (e *GoexifExtractor) Close() error { return nil }
