package query

import (
	"fmt"
	"strings"

	"pivotline/app/table"
)

// Logger receives diagnostic messages from the filter engine.
type Logger interface {
	Log(level, message string)
}

// Mode decides how clause results combine.
type Mode int

const (
	ModeAnd Mode = iota
	ModeOr
)

func (m Mode) String() string {
	if m == ModeOr {
		return "OR"
	}
	return "AND"
}

// ParseMode accepts "AND" or "OR" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AND", "":
		return ModeAnd, nil
	case "OR":
		return ModeOr, nil
	}
	return ModeAnd, fmt.Errorf("unknown filter mode %q", s)
}

// FilterSet is an ordered list of clauses combined with AND or OR. The zero
// value is an empty AND set, which matches every row. A FilterSet is owned by
// one analysis session and is not safe for concurrent mutation.
type FilterSet struct {
	clauses []Clause
	mode    Mode
}

// NewFilterSet returns an empty set using mode.
func NewFilterSet(mode Mode) *FilterSet {
	return &FilterSet{mode: mode}
}

func (fs *FilterSet) Mode() Mode        { return fs.mode }
func (fs *FilterSet) SetMode(mode Mode) { fs.mode = mode }
func (fs *FilterSet) Len() int          { return len(fs.clauses) }

// Clauses returns a copy of the clauses in insertion order.
func (fs *FilterSet) Clauses() []Clause {
	return append([]Clause(nil), fs.clauses...)
}

// Add appends c unless a clause with the same serialized text is present.
// It reports whether c was added.
func (fs *FilterSet) Add(c Clause) bool {
	text := SerializeClause(c)
	for _, existing := range fs.clauses {
		if SerializeClause(existing) == text {
			return false
		}
	}
	fs.clauses = append(fs.clauses, c)
	return true
}

// Remove deletes the clause whose serialized text equals c's.
func (fs *FilterSet) Remove(c Clause) bool {
	text := SerializeClause(c)
	for i, existing := range fs.clauses {
		if SerializeClause(existing) == text {
			fs.clauses = append(fs.clauses[:i], fs.clauses[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every clause. The mode is kept.
func (fs *FilterSet) Clear() {
	fs.clauses = nil
}

// Evaluate reports whether row passes the set. An empty set passes every row.
func (fs *FilterSet) Evaluate(row, header []string) bool {
	if len(fs.clauses) == 0 {
		return true
	}
	if fs.mode == ModeOr {
		for _, c := range fs.clauses {
			if EvaluateClause(row, header, c) {
				return true
			}
		}
		return false
	}
	for _, c := range fs.clauses {
		if !EvaluateClause(row, header, c) {
			return false
		}
	}
	return true
}

// EvaluateClause applies one clause to row. The column is resolved with
// table.ColumnIndex, like every other column lookup. An unknown column or a
// row too short to hold it fails the clause before negation is considered.
func EvaluateClause(row, header []string, c Clause) bool {
	idx := table.ColumnIndex(header, c.Column)
	if idx < 0 || idx >= len(row) {
		return false
	}
	result := Compare(row[idx], c.Value, c.Value2, c.Operator)
	if c.Negate {
		return !result
	}
	return result
}

// Matching returns the indices of the rows in t that pass the set.
func (fs *FilterSet) Matching(t *table.Table) []int {
	out := make([]int, 0, len(t.Rows))
	for i, row := range t.Rows {
		if fs.Evaluate(row, t.Header) {
			out = append(out, i)
		}
	}
	return out
}

// Filter returns a new table holding the rows of t that pass the set.
func (fs *FilterSet) Filter(t *table.Table) *table.Table {
	return t.Select(fs.Matching(t))
}

// Strings returns the serialized clauses, ready to persist.
func (fs *FilterSet) Strings() []string {
	out := make([]string, len(fs.clauses))
	for i, c := range fs.clauses {
		out[i] = SerializeClause(c)
	}
	return out
}

// Load replaces the clauses with those parsed from lines. Lines that do not
// parse are dropped and logged so one corrupt entry never blocks the rest.
// It returns the number of dropped lines.
func (fs *FilterSet) Load(lines []string, logger Logger) int {
	fs.clauses = nil
	dropped := 0
	for _, line := range lines {
		c, err := ParseClause(line)
		if err != nil {
			dropped++
			if logger != nil {
				logger.Log("warn", fmt.Sprintf("[FILTER] dropping clause: %v", err))
			}
			continue
		}
		fs.Add(c)
	}
	return dropped
}
