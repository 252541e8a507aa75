package timestamps

import (
	"strings"
)

const (
	// DateSampleSize is how many non-empty cells are inspected per column.
	DateSampleSize = 10
	// DateSampleRatio is the share of sampled cells that must parse as dates.
	DateSampleRatio = 0.7
)

// IsDateColumn decides whether the column at idx holds dd/mm/yyyy dates. The
// first DateSampleSize non-empty cells in row order are sampled and at least
// DateSampleRatio of them must parse. Short rows are skipped.
func IsDateColumn(rows [][]string, idx int) bool {
	if idx < 0 {
		return false
	}
	checked, dates := 0, 0
	for _, row := range rows {
		if checked >= DateSampleSize {
			break
		}
		if idx >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[idx])
		if v == "" {
			continue
		}
		if IsDayMonthYear(v) {
			dates++
		}
		checked++
	}
	return checked > 0 && float64(dates) >= float64(checked)*DateSampleRatio
}

// DetectDateColumns returns the indices of every column that IsDateColumn accepts.
func DetectDateColumns(header []string, rows [][]string) []int {
	var out []int
	for i := range header {
		if IsDateColumn(rows, i) {
			out = append(out, i)
		}
	}
	return out
}

// DateRange scans the column at idx and returns the earliest and latest dates
// that parse. ok is false when no cell parses.
func DateRange(rows [][]string, idx int) (first, last MonthYear, ok bool) {
	for _, row := range rows {
		if idx < 0 || idx >= len(row) {
			continue
		}
		t, parsed := ParseDayMonthYear(row[idx])
		if !parsed {
			continue
		}
		m := MonthYearOf(t)
		if !ok {
			first, last, ok = m, m, true
			continue
		}
		if m.Before(first) {
			first = m
		}
		if last.Before(m) {
			last = m
		}
	}
	return first, last, ok
}
