package fileloader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"pivotline/app/table"
)

// IsDirectory checks if the path is a directory
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsGlob reports whether path contains glob metacharacters.
func IsGlob(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// SourceFiles expands path into the files a load would read, sorted by path:
// a directory yields every supported file under it matching options.Pattern,
// a glob yields its matches, anything else is returned as is. root is the
// directory that relative source names are computed against.
func SourceFiles(path string, options Options) (files []string, root string, err error) {
	var pattern string
	switch {
	case IsDirectory(path):
		root, err = filepath.Abs(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve path: %w", err)
		}
		p := options.Pattern
		if p == "" {
			p = "**/*"
		}
		pattern = filepath.Join(root, p)
	case IsGlob(path):
		base, _ := doublestar.SplitPattern(filepath.ToSlash(path))
		root, err = filepath.Abs(filepath.FromSlash(base))
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve path: %w", err)
		}
		pattern = path
	default:
		return []string{path}, filepath.Dir(path), nil
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, "", fmt.Errorf("pattern matching failed: %w", err)
	}
	for _, m := range matches {
		info, statErr := os.Stat(m)
		if statErr != nil || info.IsDir() || !IsSupported(m) {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, root, fmt.Errorf("no compatible files found for %s", path)
	}
	return files, root, nil
}

// LimitFiles keeps the first limit files. A limit of zero or less keeps them all.
func LimitFiles(files []string, limit int) ([]string, bool) {
	if limit <= 0 || len(files) <= limit {
		return files, false
	}
	return files[:limit], true
}

// mergeTables concatenates tables under the union of their headers, ordered
// by first appearance. Names are matched case-insensitively and the first
// spelling seen is kept, so "Name" and "name" from two files share a column.
// Each file's cells move to the unified position of their column name.
func mergeTables(parts []*table.Table, sources []string, includeSource bool) *table.Table {
	var header []string
	index := make(map[string]int)
	for _, p := range parts {
		for _, h := range p.Header {
			key := strings.ToLower(h)
			if _, ok := index[key]; !ok {
				index[key] = len(header)
				header = append(header, h)
			}
		}
	}
	sourceIdx := -1
	if includeSource {
		sourceIdx = len(header)
		header = append(header, SourceColumn)
	}

	var rows [][]string
	for i, p := range parts {
		positions := make([]int, len(p.Header))
		for j, h := range p.Header {
			positions[j] = index[strings.ToLower(h)]
		}
		for _, row := range p.Rows {
			unified := make([]string, len(header))
			for j, v := range row {
				if j < len(positions) {
					unified[positions[j]] = v
				}
			}
			if sourceIdx >= 0 {
				unified[sourceIdx] = sources[i]
			}
			rows = append(rows, unified)
		}
	}
	return &table.Table{Header: header, Rows: rows}
}
