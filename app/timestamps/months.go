package timestamps

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// monthLabels are the names written into month-year buckets.
var monthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// monthNumbers maps every accepted month spelling to its 1-based number.
// French abbreviations are accepted so labels written by older exports still sort.
var monthNumbers = map[string]int{
	"Jan": 1, "Janv": 1, "January": 1,
	"Feb": 2, "Fév": 2, "Fev": 2, "February": 2,
	"Mar": 3, "March": 3,
	"Apr": 4, "Avr": 4, "April": 4,
	"May": 5, "Mai": 5,
	"Jun": 6, "Juin": 6, "June": 6,
	"Jul": 7, "Juil": 7, "Juill": 7, "July": 7,
	"Aug": 8, "Aoû": 8, "Août": 8, "August": 8,
	"Sep": 9, "Sept": 9, "September": 9,
	"Oct": 10, "October": 10,
	"Nov": 11, "November": 11,
	"Dec": 12, "Déc": 12, "December": 12,
}

// MonthYear identifies one calendar month.
type MonthYear struct {
	Year  int
	Month time.Month
}

// MonthYearOf truncates t to its calendar month.
func MonthYearOf(t time.Time) MonthYear {
	return MonthYear{Year: t.Year(), Month: t.Month()}
}

// Label renders the bucket label, e.g. "Mar 2021".
func (m MonthYear) Label() string {
	return fmt.Sprintf("%s %d", monthLabels[m.Month-1], m.Year)
}

// Before reports whether m is an earlier month than o.
func (m MonthYear) Before(o MonthYear) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// Next returns the following calendar month.
func (m MonthYear) Next() MonthYear {
	if m.Month == time.December {
		return MonthYear{Year: m.Year + 1, Month: time.January}
	}
	return MonthYear{Year: m.Year, Month: m.Month + 1}
}

// ToMonthYearLabel converts a dd/mm/yyyy cell into its bucket label.
func ToMonthYearLabel(s string) (string, bool) {
	t, ok := ParseDayMonthYear(s)
	if !ok {
		return "", false
	}
	return MonthYearOf(t).Label(), true
}

// MonthNumber returns the 1-based month for a spelling from the month table.
func MonthNumber(name string) (int, bool) {
	n, ok := monthNumbers[name]
	return n, ok
}

// ParseMonthYearLabel splits a "<Mon> <yyyy>" label.
func ParseMonthYearLabel(label string) (MonthYear, bool) {
	parts := strings.Split(label, " ")
	if len(parts) != 2 {
		return MonthYear{}, false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return MonthYear{}, false
	}
	month, ok := monthNumbers[parts[0]]
	if !ok {
		return MonthYear{}, false
	}
	return MonthYear{Year: year, Month: time.Month(month)}, true
}

// CompareMonthYear orders month-year labels chronologically: year first, then
// the month number from the lookup table. Labels that do not have the
// "<name> <year>" shape, or whose month names are unknown within the same year,
// fall back to plain string order.
func CompareMonthYear(a, b string) int {
	pa := strings.Split(a, " ")
	pb := strings.Split(b, " ")
	if len(pa) == 2 && len(pb) == 2 {
		ya, errA := strconv.Atoi(pa[1])
		yb, errB := strconv.Atoi(pb[1])
		if errA == nil && errB == nil {
			if ya != yb {
				return compareInts(ya, yb)
			}
			ma, okA := monthNumbers[pa[0]]
			mb, okB := monthNumbers[pb[0]]
			if okA && okB {
				return compareInts(ma, mb)
			}
		}
	}
	return strings.Compare(a, b)
}

// MonthRange lists every month from first through last, inclusive. With
// fullYear the range runs on to December of last's year.
func MonthRange(first, last MonthYear, fullYear bool) []MonthYear {
	start, end := first, last
	if fullYear {
		end.Month = time.December
	}
	var out []MonthYear
	for m := start; !end.Before(m); m = m.Next() {
		out = append(out, m)
	}
	return out
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
