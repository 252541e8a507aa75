package fileloader

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// CompressionType represents the compression format of a file
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionGzip
	CompressionBzip2
	CompressionXZ
)

func (ct CompressionType) String() string {
	switch ct {
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	default:
		return "none"
	}
}

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte("BZh")
	xzMagic    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// DetectCompressionByMagic inspects the leading bytes of data.
func DetectCompressionByMagic(data []byte) CompressionType {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(data, bzip2Magic):
		return CompressionBzip2
	case bytes.HasPrefix(data, xzMagic):
		return CompressionXZ
	default:
		return CompressionNone
	}
}

// Decompress returns the decompressed contents of data. A stream that breaks
// after yielding some bytes returns the partial data with a non-empty warning.
func Decompress(data []byte, ct CompressionType) ([]byte, string, error) {
	var reader io.Reader
	src := bytes.NewReader(data)
	switch ct {
	case CompressionNone:
		return data, "", nil
	case CompressionGzip:
		gz, err := gzip.NewReader(src)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case CompressionBzip2:
		reader = bzip2.NewReader(src)
	case CompressionXZ:
		xr, err := xz.NewReader(src)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create xz reader: %w", err)
		}
		reader = xr
	default:
		return nil, "", fmt.Errorf("%w: compression %v", ErrUnsupported, ct)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		if buf.Len() == 0 {
			return nil, "", fmt.Errorf("decompression failed: %w", err)
		}
		return buf.Bytes(), fmt.Sprintf("decompression incomplete: %v; some data may be missing", err), nil
	}
	return buf.Bytes(), "", nil
}
