// Package stats summarises table columns: descriptive statistics over the
// numeric cells of one column, row counts under a filter set, and the distinct
// values a column holds.
package stats

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pivotline/app/table"
)

// ErrNoNumericData is returned when a column has no cell that reads as a number.
var ErrNoNumericData = errors.New("no numeric values")

// Summary holds descriptive statistics. Variance is the population variance.
type Summary struct {
	Rows     int     `json:"rows"`
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Sum      float64 `json:"sum"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"stdDev"`
	Range    float64 `json:"range"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	IQR      float64 `json:"iqr"`
}

// NonNumeric is the number of cells that were empty or did not read as a number.
func (s Summary) NonNumeric() int {
	return s.Rows - s.Count
}

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParseNumber reads a cell leniently: a decimal comma becomes a point and any
// character other than digits, '.' and '-' is dropped, so "1 234,5 €" reads
// as 1234.5.
func ParseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	s = nonNumeric.ReplaceAllString(strings.ReplaceAll(s, ",", "."), "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Compute summarises the numeric values among cells.
func Compute(cells []string) (Summary, error) {
	values := make([]float64, 0, len(cells))
	for _, c := range cells {
		if f, ok := ParseNumber(c); ok {
			values = append(values, f)
		}
	}
	s := Summary{Rows: len(cells), Count: len(values)}
	if len(values) == 0 {
		return s, ErrNoNumericData
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := len(sorted)
	s.Min = sorted[0]
	s.Max = sorted[n-1]
	// Summed in decimal so long money columns do not drift.
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	s.Sum = total.InexactFloat64()
	s.Mean = total.Div(decimal.NewFromInt(int64(n))).InexactFloat64()
	if n%2 == 0 {
		s.Median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		s.Median = sorted[n/2]
	}

	var squares float64
	for _, v := range values {
		d := v - s.Mean
		squares += d * d
	}
	s.Variance = squares / float64(n)
	s.StdDev = math.Sqrt(s.Variance)
	s.Range = s.Max - s.Min

	s.Q1 = Percentile(sorted, 25)
	s.Q3 = Percentile(sorted, 75)
	s.IQR = s.Q3 - s.Q1
	return s, nil
}

// Percentile interpolates linearly between the closest ranks of sorted, which
// must be in ascending order.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	w := idx - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// ColumnSummary summarises the named column of t.
func ColumnSummary(t *table.Table, column string) (Summary, error) {
	cells, err := t.Column(column)
	if err != nil {
		return Summary{}, err
	}
	s, err := Compute(cells)
	if err != nil {
		return s, fmt.Errorf("column %q: %w", column, err)
	}
	return s, nil
}
