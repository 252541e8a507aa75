package timestamps

import (
	"strings"
	"time"
)

// DayMonthYearLayout is the only date format recognised by comparisons and
// monthly bucketing. Day and month may be written with one or two digits.
const DayMonthYearLayout = "2/1/2006"

// ParseDayMonthYear parses a dd/mm/yyyy date strictly: impossible dates such as
// 31/02/2021 are rejected rather than rolled over. Anything after the first
// whitespace (typically a time of day) is ignored.
func ParseDayMonthYear(s string) (time.Time, bool) {
	ss := strings.TrimSpace(s)
	if ss == "" {
		return time.Time{}, false
	}
	if i := strings.IndexAny(ss, " \t"); i >= 0 {
		ss = ss[:i]
	}
	// Cheap reject before time.Parse: exactly two separators.
	if strings.Count(ss, "/") != 2 {
		return time.Time{}, false
	}
	t, err := time.Parse(DayMonthYearLayout, ss)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsDayMonthYear reports whether s parses under ParseDayMonthYear.
func IsDayMonthYear(s string) bool {
	_, ok := ParseDayMonthYear(s)
	return ok
}
