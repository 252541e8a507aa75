package query

import (
	"strconv"
	"strings"

	"pivotline/app/timestamps"
)

// Compare evaluates rowValue against the filter value(s) with op.
//
// Ordering operators try three interpretations in turn: dd/mm/yyyy dates when
// both sides parse, then numbers when both sides parse, then case-insensitive
// text. A column of dates therefore still compares (as text) while the filter
// value is only half typed. Operators whose required value is missing never
// match.
func Compare(rowValue, value, value2 string, op Operator) bool {
	row := strings.TrimSpace(rowValue)
	value = strings.TrimSpace(value)
	value2 = strings.TrimSpace(value2)

	switch op {
	case OpIsEmpty:
		return row == ""
	case OpIsFull:
		return row != ""
	case OpEquals:
		if value == "" || strings.EqualFold(value, "null") {
			return row == ""
		}
		return row == value
	case OpHas:
		if value == "" {
			return false
		}
		return strings.Contains(strings.ToLower(row), strings.ToLower(value))
	case OpLessThan, OpGreaterThan, OpLessOrEqual, OpGreaterOrEqual:
		if value == "" {
			return false
		}
		return ordered(row, value, op)
	case OpBetween:
		if value == "" || value2 == "" {
			return false
		}
		return between(row, value, value2)
	default:
		return false
	}
}

// ordered applies an ordering operator to a and b as dates, numbers or text,
// in that order of preference. Numbers are compared with the operator itself
// so that NaN is neither smaller, larger nor equal to anything.
func ordered(a, b string, op Operator) bool {
	if da, ok := timestamps.ParseDayMonthYear(a); ok {
		if db, ok := timestamps.ParseDayMonthYear(b); ok {
			return holds(da.Compare(db), op)
		}
	}
	if fa, ok := parseNumber(a); ok {
		if fb, ok := parseNumber(b); ok {
			switch op {
			case OpLessThan:
				return fa < fb
			case OpGreaterThan:
				return fa > fb
			case OpLessOrEqual:
				return fa <= fb
			default:
				return fa >= fb
			}
		}
	}
	return holds(strings.Compare(strings.ToLower(a), strings.ToLower(b)), op)
}

// holds reports whether a three-way comparison result satisfies op.
func holds(cmp int, op Operator) bool {
	switch op {
	case OpLessThan:
		return cmp < 0
	case OpGreaterThan:
		return cmp > 0
	case OpLessOrEqual:
		return cmp <= 0
	case OpGreaterOrEqual:
		return cmp >= 0
	}
	return false
}

// between applies the same tiers as order, but all three values must agree on
// the tier: a date row is only compared as a date against two date bounds.
func between(row, from, to string) bool {
	if dr, ok := timestamps.ParseDayMonthYear(row); ok {
		df, okF := timestamps.ParseDayMonthYear(from)
		dt, okT := timestamps.ParseDayMonthYear(to)
		if okF && okT {
			return !dr.Before(df) && !dr.After(dt)
		}
	}
	if fr, ok := parseNumber(row); ok {
		ff, okF := parseNumber(from)
		ft, okT := parseNumber(to)
		if okF && okT {
			return fr >= ff && fr <= ft
		}
	}
	r := strings.ToLower(row)
	return r >= strings.ToLower(from) && r <= strings.ToLower(to)
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
