package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	jpegAPP1   = 0xE1
	ifdEntrySz = 12
)

var (
	errNoExif      = errors.New("no exif block")
	errIFDCycle    = errors.New("exif: IFD chain loops")
	errIFDOutRange = errors.New("exif: IFD offset out of range")
)

var exifIntro = []byte("Exif\x00\x00")

// tiffBlock locates the TIFF structure holding the EXIF directories, the same
// way goexif does: a bare TIFF file, a raw "Exif\0\0" block, or the first
// JPEG APP1 segment.
func tiffBlock(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, errNoExif
	}
	switch string(data[:4]) {
	case "II*\x00", "MM\x00*":
		return data, nil
	case "Exif":
		if !bytes.HasPrefix(data, exifIntro) {
			return nil, errNoExif
		}
		return data[len(exifIntro):], nil
	}

	i := 0
	for {
		j := bytes.IndexByte(data[i:], 0xFF)
		if j < 0 || i+j+1 >= len(data) {
			return nil, errNoExif
		}
		i += j + 1
		marker := data[i]
		i++
		if marker != jpegAPP1 {
			continue
		}
		if i+2 > len(data) {
			return nil, errNoExif
		}
		n := int(binary.BigEndian.Uint16(data[i:])) - 2
		i += 2
		if n == 0 {
			continue
		}
		if n < 0 || i+n > len(data) {
			return nil, errNoExif
		}
		seg := data[i : i+n]
		if !bytes.HasPrefix(seg, exifIntro) {
			return nil, errNoExif
		}
		return seg[len(exifIntro):], nil
	}
}

// checkIFDChain follows the next-IFD offsets from the header and fails on a
// revisited or out-of-range directory. goexif only rejects a directory that
// points at itself.
func checkIFDChain(tiff []byte) error {
	if len(tiff) < 8 {
		return fmt.Errorf("exif: short tiff header")
	}
	var order binary.ByteOrder
	switch string(tiff[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return fmt.Errorf("exif: bad byte order %q", tiff[:2])
	}

	offset := int64(int32(order.Uint32(tiff[4:8])))
	seen := make(map[int64]bool)
	for offset != 0 {
		if offset < 0 || offset+2 > int64(len(tiff)) {
			return fmt.Errorf("%w: %d", errIFDOutRange, offset)
		}
		if seen[offset] {
			return fmt.Errorf("%w at offset %d", errIFDCycle, offset)
		}
		seen[offset] = true

		entries := int64(int16(order.Uint16(tiff[offset:])))
		if entries < 0 {
			entries = 0
		}
		next := offset + 2 + entries*ifdEntrySz
		if next+4 > int64(len(tiff)) {
			return fmt.Errorf("%w: directory at %d", errIFDOutRange, offset)
		}
		offset = int64(int32(order.Uint32(tiff[next:])))
	}
	return nil
}
