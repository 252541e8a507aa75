package crosstab

import (
	"errors"

	"pivotline/app/table"
)

var (
	// ErrInvalidArgument marks a request rejected before any work was done.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoData means the request was valid but no row produced an (X, Y) pair.
	ErrNoData = errors.New("no data")
)

// Logger interface for crosstab logging
type Logger interface {
	Log(level, message string)
}

// Request selects the two axes of a crosstab.
type Request struct {
	XColumn string `json:"xColumn"`
	YColumn string `json:"yColumn"`
	// MonthlyConversion buckets date columns into calendar months.
	MonthlyConversion bool `json:"monthlyConversion"`
	// IncludeAllMonths extends month ranges to December of the last year.
	IncludeAllMonths bool `json:"includeAllMonths"`
	// Reference is sampled to decide which columns hold dates. Nil means the
	// aggregated table itself; sessions pass the unfiltered table so the
	// decision does not change as filters narrow the rows.
	Reference *table.Table `json:"-"`
}

// Result is a fully built crosstab. XValues and YValues are already in display
// order and every total was computed in that order, so consumers must not
// re-sort them.
type Result struct {
	XColumn string `json:"xColumn"`
	YColumn string `json:"yColumn"`
	// XMonthly and YMonthly report whether the axis was bucketed into months.
	XMonthly bool `json:"xMonthly"`
	YMonthly bool `json:"yMonthly"`

	Matrix       map[string]map[string]int `json:"matrix"`
	XValues      []string                  `json:"xValues"`
	YValues      []string                  `json:"yValues"`
	RowTotals    map[string]int            `json:"rowTotals"`
	ColumnTotals map[string]int            `json:"columnTotals"`
	GrandTotal   int                       `json:"grandTotal"`
	// CumulativeByX is the running sum of RowTotals along XValues.
	CumulativeByX map[string]int `json:"cumulativeByX"`
	// CumulativeByY is the running sum of ColumnTotals along YValues.
	CumulativeByY map[string]int `json:"cumulativeByY"`

	// SkippedRows counts rows with an empty axis value or an unparseable date.
	SkippedRows int `json:"skippedRows"`
}

// Count returns matrix[x][y], or 0 when either key is absent.
func (r *Result) Count(x, y string) int {
	return r.Matrix[x][y]
}
