// Package fileloader reads CSV, XLSX and JSON sources (optionally gzip, bzip2
// or xz compressed, optionally a whole directory or glob of files) into a
// table.Table, and writes tables and crosstab results back out.
package fileloader

import "errors"

// ErrUnsupported is returned for sources the loader cannot read.
var ErrUnsupported = errors.New("unsupported source")

// Logger receives diagnostic messages from the loader.
type Logger interface {
	Log(level, message string)
}

type nopLogger struct{}

func (nopLogger) Log(string, string) {}

// FileType represents the type of data file being processed
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeCSV
	FileTypeXLSX
	FileTypeJSON
)

// String returns the string representation of FileType
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "CSV"
	case FileTypeXLSX:
		return "XLSX"
	case FileTypeJSON:
		return "JSON"
	default:
		return "Unknown"
	}
}

// SourceColumn is the header appended when Options.IncludeSourceColumn is set.
const SourceColumn = "__source_file__"

// Options controls how a source is parsed.
type Options struct {
	// NoHeaderRow treats the first row as data and synthesises Unnamed_A, Unnamed_B, ...
	NoHeaderRow bool
	// JPath selects the row array inside a JSON document. Defaults to "$".
	JPath string
	// Sheet names the XLSX sheet to read. Empty means the first sheet.
	Sheet string
	// Delimiter is the CSV field separator. Zero means ','.
	Delimiter rune
	// Pattern filters files when the path is a directory. Defaults to "**/*".
	Pattern string
	// MaxFiles bounds directory and glob loads (0 = unlimited).
	MaxFiles int
	// IncludeSourceColumn appends the relative path of each row's file.
	IncludeSourceColumn bool
}

// DefaultOptions returns the default parsing options
func DefaultOptions() Options {
	return Options{JPath: "$", Delimiter: ','}
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

func (o Options) jpath() string {
	if o.JPath == "" {
		return "$"
	}
	return o.JPath
}
