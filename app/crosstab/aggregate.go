package crosstab

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"pivotline/app/table"
	"pivotline/app/timestamps"
)

// Aggregator builds crosstabs. The zero value is usable and logs nothing.
type Aggregator struct {
	logger Logger
}

// NewAggregator returns an Aggregator that reports progress to logger.
func NewAggregator(logger Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

func (a *Aggregator) log(level, format string, args ...any) {
	if a == nil || a.logger == nil {
		return
	}
	a.logger.Log(level, fmt.Sprintf(format, args...))
}

// Aggregate is shorthand for a background-context aggregation without logging.
func Aggregate(t *table.Table, req Request) (*Result, error) {
	return (&Aggregator{}).Aggregate(context.Background(), t, req)
}

// axis is one resolved side of the crosstab.
type axis struct {
	name    string
	idx     int
	monthly bool
}

// Aggregate counts the rows of t by (X, Y) value pairs.
//
// Rows with a blank X or Y are skipped. With MonthlyConversion, a column
// detected as a date column is replaced by "Mon YYYY" labels and rows whose
// date does not parse are skipped; every month between the earliest and latest
// date is then present in the result even when its count is zero. When no row
// is counted the result is still returned, alongside ErrNoData.
func (a *Aggregator) Aggregate(ctx context.Context, t *table.Table, req Request) (*Result, error) {
	x, y, err := resolveAxes(t, req)
	if err != nil {
		return nil, err
	}

	if req.MonthlyConversion {
		ref := req.Reference
		if ref == nil {
			ref = t
		}
		x.monthly = timestamps.IsDateColumn(ref.Rows, ref.ColumnIndex(x.name))
		y.monthly = timestamps.IsDateColumn(ref.Rows, ref.ColumnIndex(y.name))
	}

	res := &Result{
		XColumn:  x.name,
		YColumn:  y.name,
		XMonthly: x.monthly,
		YMonthly: y.monthly,
		Matrix:   map[string]map[string]int{},
	}

	for i, row := range t.Rows {
		// Check for cancellation every 1000 rows
		if i%1000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		xv, ok := axisValue(row, x)
		if !ok {
			res.SkippedRows++
			continue
		}
		yv, ok := axisValue(row, y)
		if !ok {
			res.SkippedRows++
			continue
		}

		cells := res.Matrix[xv]
		if cells == nil {
			cells = map[string]int{}
			res.Matrix[xv] = cells
		}
		cells[yv]++
	}

	if x.monthly {
		for _, label := range monthLabels(t.Rows, x.idx, req.IncludeAllMonths) {
			if _, exists := res.Matrix[label]; !exists {
				res.Matrix[label] = map[string]int{}
			}
		}
	}
	if y.monthly {
		labels := monthLabels(t.Rows, y.idx, req.IncludeAllMonths)
		for _, cells := range res.Matrix {
			for _, label := range labels {
				if _, exists := cells[label]; !exists {
					cells[label] = 0
				}
			}
		}
	}

	res.computeTotals()
	a.log("debug", "[CROSSTAB] %s x %s: %d rows counted, %d skipped, %d x %d cells",
		x.name, y.name, res.GrandTotal, res.SkippedRows, len(res.XValues), len(res.YValues))

	if res.GrandTotal == 0 {
		return res, fmt.Errorf("%w: no rows with both %q and %q set", ErrNoData, x.name, y.name)
	}
	return res, nil
}

func resolveAxes(t *table.Table, req Request) (axis, axis, error) {
	xName := strings.TrimSpace(req.XColumn)
	yName := strings.TrimSpace(req.YColumn)
	if xName == "" || yName == "" {
		return axis{}, axis{}, fmt.Errorf("%w: X and Y columns cannot be empty", ErrInvalidArgument)
	}
	if t == nil {
		return axis{}, axis{}, fmt.Errorf("%w: no table loaded", ErrInvalidArgument)
	}
	xIdx := t.ColumnIndex(xName)
	yIdx := t.ColumnIndex(yName)
	if xIdx < 0 || yIdx < 0 {
		var missing []string
		if xIdx < 0 {
			missing = append(missing, xName)
		}
		if yIdx < 0 {
			missing = append(missing, yName)
		}
		return axis{}, axis{}, fmt.Errorf("%w: columns not found: %s", ErrInvalidArgument, strings.Join(missing, ", "))
	}
	if xIdx == yIdx {
		return axis{}, axis{}, fmt.Errorf("%w: X and Y must be different columns", ErrInvalidArgument)
	}
	return axis{name: t.Header[xIdx], idx: xIdx}, axis{name: t.Header[yIdx], idx: yIdx}, nil
}

// axisValue reads the cell for one axis, converting dates to month labels when
// the axis is monthly. ok is false when the row must be skipped.
func axisValue(row []string, ax axis) (string, bool) {
	v := strings.TrimSpace(table.CellAt(row, ax.idx))
	if v == "" {
		return "", false
	}
	if ax.monthly {
		return timestamps.ToMonthYearLabel(v)
	}
	return v, true
}

// monthLabels lists the contiguous month labels spanned by the dates in column idx.
func monthLabels(rows [][]string, idx int, fullYear bool) []string {
	first, last, ok := timestamps.DateRange(rows, idx)
	if !ok {
		return nil
	}
	months := timestamps.MonthRange(first, last, fullYear)
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.Label()
	}
	return labels
}

// computeTotals sorts both axes for display and derives every total in that order.
func (r *Result) computeTotals() {
	ySet := map[string]struct{}{}
	r.XValues = make([]string, 0, len(r.Matrix))
	for xv, cells := range r.Matrix {
		r.XValues = append(r.XValues, xv)
		for yv := range cells {
			ySet[yv] = struct{}{}
		}
	}
	r.YValues = make([]string, 0, len(ySet))
	for yv := range ySet {
		r.YValues = append(r.YValues, yv)
	}
	SortValues(r.XValues, r.XMonthly)
	SortValues(r.YValues, r.YMonthly)

	r.RowTotals = make(map[string]int, len(r.XValues))
	r.ColumnTotals = make(map[string]int, len(r.YValues))
	r.CumulativeByX = make(map[string]int, len(r.XValues))
	r.CumulativeByY = make(map[string]int, len(r.YValues))
	r.GrandTotal = 0

	for _, xv := range r.XValues {
		sum := 0
		for _, yv := range r.YValues {
			n := r.Matrix[xv][yv]
			sum += n
			r.ColumnTotals[yv] += n
		}
		r.RowTotals[xv] = sum
		r.GrandTotal += sum
		r.CumulativeByX[xv] = r.GrandTotal
	}
	running := 0
	for _, yv := range r.YValues {
		running += r.ColumnTotals[yv]
		r.CumulativeByY[yv] = running
	}
}

// SortValues orders axis values for display: chronologically for month
// buckets, plain string order otherwise.
func SortValues(values []string, monthly bool) {
	if monthly {
		sort.SliceStable(values, func(i, j int) bool {
			return timestamps.CompareMonthYear(values[i], values[j]) < 0
		})
		return
	}
	sort.Strings(values)
}
