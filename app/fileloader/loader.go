package fileloader

import (
	"fmt"
	"os"
	"path/filepath"

	"pivotline/app/table"
)

// Loader reads sources into tables and reports skipped files and partial
// decompression through its logger.
type Loader struct {
	logger Logger
}

// NewLoader returns a Loader. A nil logger discards messages.
func NewLoader(logger Logger) *Loader {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Loader{logger: logger}
}

// Load reads path with a silent Loader.
func Load(path string, options Options) (*table.Table, error) {
	return NewLoader(nil).Load(path, options)
}

// Load reads a single file, a directory or a glob pattern. Multi-file loads
// merge every readable file; files that fail to parse are skipped with a
// warning, and the load fails only when none could be read.
func (l *Loader) Load(path string, options Options) (*table.Table, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is empty")
	}
	if !IsDirectory(path) && !IsGlob(path) {
		return l.LoadFile(path, options)
	}

	files, root, err := SourceFiles(path, options)
	if err != nil {
		return nil, err
	}
	if kept, truncated := LimitFiles(files, options.MaxFiles); truncated {
		l.logger.Log("warn", fmt.Sprintf("[LOADER] %d files match %s, reading the first %d", len(files), path, options.MaxFiles))
		files = kept
	}

	var parts []*table.Table
	var sources []string
	for _, f := range files {
		t, err := l.LoadFile(f, options)
		if err != nil {
			l.logger.Log("warn", fmt.Sprintf("[LOADER] skipping %s: %v", f, err))
			continue
		}
		rel, relErr := filepath.Rel(root, f)
		if relErr != nil {
			rel = f
		}
		parts = append(parts, t)
		sources = append(sources, filepath.ToSlash(rel))
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("none of the %d files matching %s could be read", len(files), path)
	}
	merged := mergeTables(parts, sources, options.IncludeSourceColumn)
	l.logger.Log("info", fmt.Sprintf("[LOADER] merged %d files into %d rows", len(parts), len(merged.Rows)))
	return merged, nil
}

// LoadFile reads one file, decompressing it first when the name or the
// leading bytes say it is compressed.
func (l *Loader) LoadFile(path string, options Options) (*table.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fileType, compression := DetectFileTypeAndCompression(path)
	if compression == CompressionNone {
		compression = DetectCompressionByMagic(raw)
	}
	data, warning, err := Decompress(raw, compression)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if warning != "" {
		l.logger.Log("warn", fmt.Sprintf("[LOADER] %s: %s", path, warning))
	}
	if fileType == FileTypeUnknown {
		fileType = sniffFileType(data)
	}

	var t *table.Table
	switch fileType {
	case FileTypeCSV:
		t, err = ParseCSV(data, options)
	case FileTypeXLSX:
		t, err = ParseXLSX(data, options)
	case FileTypeJSON:
		t, err = ParseJSON(data, options)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.logger.Log("debug", fmt.Sprintf("[LOADER] read %s (%s, compression %s): %d columns, %d rows",
		path, fileType, compression, len(t.Header), len(t.Rows)))
	return t, nil
}
