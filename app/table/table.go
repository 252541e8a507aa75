// Package table holds the in-memory tabular data every analysis runs over: a
// header row and string cells aligned to it by position.
package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned when a call is rejected before any change is made.
var ErrInvalidArgument = errors.New("invalid argument")

// Table is a loaded data set. Cells are always text; types are sniffed by the
// consumers that need them. Rows may be ragged: missing cells read as "" and
// cells beyond the header are ignored.
type Table struct {
	Header []string
	Rows   [][]string
}

// New builds a table holding its own copy of header and rows.
func New(header []string, rows [][]string) *Table {
	t := &Table{
		Header: append([]string(nil), header...),
		Rows:   make([][]string, len(rows)),
	}
	for i, r := range rows {
		t.Rows[i] = append([]string(nil), r...)
	}
	return t
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	return New(t.Header, t.Rows)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Cell returns the cell at (row, col), or "" if the row is short.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	return CellAt(t.Rows[row], col)
}

// CellAt reads one cell from a raw row, tolerating short rows.
func CellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// ColumnIndex resolves a column name: an exact match wins, then a
// case-insensitive match after trimming. Returns -1 if nothing matches.
func (t *Table) ColumnIndex(name string) int {
	return ColumnIndex(t.Header, name)
}

// ColumnIndex is the header-only form of Table.ColumnIndex.
func ColumnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return -1
	}
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i
		}
	}
	return -1
}

// Column returns a copy of every cell in the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: column %q not found", ErrInvalidArgument, name)
	}
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = CellAt(r, idx)
	}
	return out, nil
}

// AddColumn appends a header and one cell per row. values must have exactly
// one entry per row and the name must not already be in use.
func (t *Table) AddColumn(name string, values []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: column name is empty", ErrInvalidArgument)
	}
	if len(values) != len(t.Rows) {
		return fmt.Errorf("%w: %d values for %d rows", ErrInvalidArgument, len(values), len(t.Rows))
	}
	if t.ColumnIndex(name) >= 0 {
		return fmt.Errorf("%w: column %q already exists", ErrInvalidArgument, name)
	}
	width := len(t.Header)
	t.Header = append(t.Header, name)
	for i, r := range t.Rows {
		// Pad short rows so the new cell lands under its header.
		if len(r) < width {
			padded := make([]string, width, width+1)
			copy(padded, r)
			r = padded
		} else if len(r) > width {
			r = r[:width:width]
		}
		t.Rows[i] = append(r, values[i])
	}
	return nil
}

// Select returns a new table containing the rows at the given indices.
func (t *Table) Select(indices []int) *Table {
	rows := make([][]string, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(t.Rows) {
			rows = append(rows, t.Rows[i])
		}
	}
	return New(t.Header, rows)
}
