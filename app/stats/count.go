package stats

import (
	"sort"
	"strings"

	"pivotline/app/query"
	"pivotline/app/table"
)

// Count returns how many rows of t pass every filter set given. With no sets,
// or only empty ones, every row counts.
func Count(t *table.Table, sets ...*query.FilterSet) int {
	n := 0
rows:
	for _, row := range t.Rows {
		for _, fs := range sets {
			if fs != nil && !fs.Evaluate(row, t.Header) {
				continue rows
			}
		}
		n++
	}
	return n
}

// DistinctValues returns the sorted, trimmed, non-empty values of a column.
func DistinctValues(t *table.Table, column string) ([]string, error) {
	cells, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, c := range cells {
		v := strings.TrimSpace(c)
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}
