package media

import (
	"math/rand/v2"
	"strings"
	"time"
)

const (
	suffixAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffixLength   = 2
	stampLayout    = "20060102_150405"
)

// SuffixGenerator produces the short alphanumeric hint appended to every
// formatted name. It lowers the odds of two files landing on the same name
// but is never relied on for uniqueness.
type SuffixGenerator interface {
	Suffix() string
}

// RandomSuffix draws a fresh two-character suffix on every call.
type RandomSuffix struct{}

func (RandomSuffix) Suffix() string {
	var b strings.Builder
	b.Grow(suffixLength)
	for range suffixLength {
		b.WriteByte(suffixAlphabet[rand.IntN(len(suffixAlphabet))])
	}
	return b.String()
}

// NameFormatter builds canonical filenames of the shape
// {PREFIX}_{YYYYMMDD}_{HHMMSS}_{suffix}{.ext}.
type NameFormatter struct {
	suffix SuffixGenerator
	loc    *time.Location
}

// NewNameFormatter creates a formatter that renders timestamps in the local
// time zone.
func NewNameFormatter(suffix SuffixGenerator) *NameFormatter {
	return &NameFormatter{suffix: suffix, loc: time.Local}
}

// Format names a file by its category and timestamp, interpreted on the
// local calendar and clock. An empty prefix selects the category default.
func (f *NameFormatter) Format(cat Category, ts time.Time, prefix, ext string) string {
	return f.build(cat, ts.In(f.loc), prefix, ext)
}

// FormatExport names a platform-export file. The embedded timestamp is
// rendered in UTC so the result does not depend on the host time zone.
func (f *NameFormatter) FormatExport(cat Category, ts time.Time, prefix, ext string) string {
	return f.build(cat, ts.UTC(), prefix, ext)
}

func (f *NameFormatter) build(cat Category, ts time.Time, prefix, ext string) string {
	if prefix == "" {
		prefix = cat.DefaultPrefix()
	}
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return prefix + "_" + ts.Format(stampLayout) + "_" + f.suffix.Suffix() + ext
}
