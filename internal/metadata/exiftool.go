package metadata

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/barasher/go-exiftool"
)

// ExiftoolExtractor asks a long-running exiftool process for capture times.
// It reaches formats goexif cannot parse (HEIC, most RAW) but needs the
// exiftool binary on PATH and only works on the real filesystem.
type ExiftoolExtractor struct {
	mu sync.Mutex
	et *exiftool.Exiftool
}

// NewExiftoolExtractor starts exiftool in stay-open mode. Call Close when done.
func NewExiftoolExtractor() (*ExiftoolExtractor, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("starting exiftool: %w", err)
	}
	return &ExiftoolExtractor{et: et}, nil
}

// CaptureTime returns DateTimeOriginal, falling back to CreateDate.
func (e *ExiftoolExtractor) CaptureTime(path string) (time.Time, bool, error) {
	e.mu.Lock()
	infos := e.et.ExtractMetadata(path)
	e.mu.Unlock()

	if len(infos) == 0 {
		return time.Time{}, false, errors.New("exiftool returned no metadata")
	}
	info := infos[0]
	if info.Err != nil {
		return time.Time{}, false, fmt.Errorf("extracting metadata: %w", info.Err)
	}

	for _, key := range []string{"DateTimeOriginal", "CreateDate"} {
		raw, err := info.GetString(key)
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

func (e *ExiftoolExtractor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.et.Close()
}
