package media

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/afero"
)

// MetadataExtractor reads the embedded "original capture time" of a file.
// ok is false when the file carries no such field. Errors are treated by
// callers as "no metadata available" and never abort a rename.
type MetadataExtractor interface {
	CaptureTime(path string) (t time.Time, ok bool, err error)
}

// BirthTimer reports a file's filesystem creation time when the platform
// and filesystem expose one.
type BirthTimer interface {
	BirthTime(path string, info fs.FileInfo) (t time.Time, ok bool)
}

// TimestampResolver picks the authoritative timestamp for a file: embedded
// capture metadata when requested and present, else creation time, else
// modification time.
type TimestampResolver struct {
	fs        afero.Fs
	extractor MetadataExtractor
	birth     BirthTimer
	logger    Logger
}

// NewTimestampResolver creates a resolver. extractor and birth may be nil,
// in which case the corresponding source is never consulted.
func NewTimestampResolver(fsys afero.Fs, extractor MetadataExtractor, birth BirthTimer, logger Logger) *TimestampResolver {
	return &TimestampResolver{
		fs:        fsys,
		extractor: extractor,
		birth:     birth,
		logger:    logger,
	}
}

// Resolve returns the timestamp to name path after. It only fails when the
// file itself cannot be stat'ed.
func (r *TimestampResolver) Resolve(path string, cat Category, useEmbedded bool) (time.Time, error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if useEmbedded && cat == CategoryImage && r.extractor != nil {
		t, ok, err := r.extractor.CaptureTime(path)
		switch {
		case err != nil:
			r.logger.Debug("embedded metadata unavailable", "path", path, "error", err)
		case ok && !t.IsZero():
			return t, nil
		default:
			r.logger.Debug("no embedded capture time", "path", path)
		}
	}

	if r.birth != nil {
		if t, ok := r.birth.BirthTime(path, info); ok && t.Unix() > 0 {
			return t, nil
		}
	}

	return info.ModTime(), nil
}
