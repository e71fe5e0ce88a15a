package media

import (
	"sort"
	"strings"
)

// Category is the media class of a file, derived from its extension.
type Category string

const (
	CategoryImage Category = "image"
	CategoryVideo Category = "video"
	CategoryAudio Category = "audio"
)

// categoryExtensions maps each category to the lowercase extensions it owns.
// An extension belongs to at most one category.
var categoryExtensions = map[Category][]string{
	CategoryImage: {"jpg", "jpeg", "png", "gif", "webp", "heic", "heif", "tiff", "tif", "bmp", "raw", "arw", "cr2", "nef"},
	CategoryVideo: {"mp4", "mov", "avi", "mkv", "wmv", "flv", "3gp", "webm"},
	CategoryAudio: {"mp3", "wav", "aac", "ogg", "m4a", "wma"},
}

var extensionCategory = func() map[string]Category {
	m := make(map[string]Category)
	for cat, exts := range categoryExtensions {
		for _, ext := range exts {
			m[ext] = cat
		}
	}
	return m
}()

// DefaultPrefix returns the filename token used when the caller supplies no prefix.
func (c Category) DefaultPrefix() string {
	switch c {
	case CategoryImage:
		return "IMG"
	case CategoryVideo:
		return "VIDEO"
	case CategoryAudio:
		return "AUDIO"
	default:
		return ""
	}
}

// Classify maps an extension (with or without the leading dot, any case)
// to its media category. ok is false for extensions outside every category.
func Classify(ext string) (cat Category, ok bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	cat, ok = extensionCategory[ext]
	return cat, ok
}

// SupportedExtensions returns every recognized extension, lowercase and
// without a leading dot, in sorted order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensionCategory))
	for ext := range extensionCategory {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
