// Package metadata reads embedded capture times from media files.
package metadata

import (
	"fmt"
	"strings"
	"time"

	"media-rename/internal/media"
)

// exifTimeLayout is the EXIF 2.x date/time representation.
const exifTimeLayout = "2006:01:02 15:04:05"

// Extractor is a media.MetadataExtractor that may hold resources, such as
// a helper process, until closed.
type Extractor interface {
	media.MetadataExtractor
	Close() error
}

// parseExifTime parses an EXIF date string in the local time zone.
// Cameras write "0000:00:00 00:00:00" or blanks when the clock was unset;
// those report ok=false.
func parseExifTime(raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(strings.TrimRight(raw, "\x00"))
	if raw == "" || strings.HasPrefix(raw, "0000") {
		return time.Time{}, false, nil
	}
	// Some writers append sub-seconds or a zone; the first 19 characters
	// are the fixed-width part.
	if len(raw) > len(exifTimeLayout) {
		raw = raw[:len(exifTimeLayout)]
	}
	t, err := time.ParseInLocation(exifTimeLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing exif time %q: %w", raw, err)
	}
	return t, true, nil
}

// NoneExtractor never finds embedded metadata.
type NoneExtractor struct{}

func (NoneExtractor) CaptureTime(string) (time.Time, bool, error) { return time.Time{}, false, nil }
func (NoneExtractor) Close() error                                 { return nil }
