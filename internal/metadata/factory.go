package metadata

import (
	"fmt"

	"github.com/spf13/afero"

	"media-rename/internal/config"
)

// NewExtractorFromConfig creates an Extractor based on the metadata config.
// An empty extractor name selects goexif.
func NewExtractorFromConfig(cfg config.MetadataConfig, fsys afero.Fs) (Extractor, error) {
	switch cfg.Extractor {
	case "", "goexif":
		return NewGoexifExtractor(fsys), nil
	case "exiftool":
		e, err := NewExiftoolExtractor()
		if err != nil {
			return nil, err
		}
		return e, nil
	case "none":
		return NoneExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown metadata extractor: %s", cfg.Extractor)
	}
}
