package fileloader

import (
	"path/filepath"
	"strings"
)

var compressionExtensions = map[string]CompressionType{
	".gz":  CompressionGzip,
	".bz2": CompressionBzip2,
	".xz":  CompressionXZ,
}

var fileTypeExtensions = map[string]FileType{
	".csv":  FileTypeCSV,
	".tsv":  FileTypeCSV,
	".txt":  FileTypeCSV,
	".xlsx": FileTypeXLSX,
	".json": FileTypeJSON,
}

// DetectFileTypeAndCompression determines the inner file type and the
// compression from the file name, e.g. "data.csv.gz" -> (CSV, gzip). Unknown
// extensions report FileTypeUnknown.
func DetectFileTypeAndCompression(path string) (FileType, CompressionType) {
	lower := strings.ToLower(path)
	compression := CompressionNone
	ext := filepath.Ext(lower)
	if ct, ok := compressionExtensions[ext]; ok {
		compression = ct
		lower = strings.TrimSuffix(lower, ext)
		ext = filepath.Ext(lower)
	}
	if ft, ok := fileTypeExtensions[ext]; ok {
		return ft, compression
	}
	return FileTypeUnknown, compression
}

// IsSupported reports whether path names a file the loader can read.
func IsSupported(path string) bool {
	ft, _ := DetectFileTypeAndCompression(path)
	return ft != FileTypeUnknown
}

// sniffFileType guesses the format of already-decompressed content whose
// name gave no hint.
func sniffFileType(data []byte) FileType {
	trimmed := strings.TrimLeft(string(data[:min(len(data), 512)]), " \t\r\n\ufeff")
	switch {
	case strings.HasPrefix(trimmed, "{"), strings.HasPrefix(trimmed, "["):
		return FileTypeJSON
	case strings.HasPrefix(trimmed, "PK\x03\x04"):
		return FileTypeXLSX
	default:
		return FileTypeCSV
	}
}
