package crosstab

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pivotline/app/table"
)

func TestAggregateCategories(t *testing.T) {
	tbl := table.New([]string{"Cat", "Status"}, [][]string{
		{"A", "Open"},
		{"B", "Open"},
		{"B", "Closed"},
		{"A", "Closed"},
	})

	res, err := Aggregate(tbl, Request{XColumn: "Cat", YColumn: "Status"})
	require.NoError(t, err)

	assert.Equal(t, map[string]map[string]int{
		"A": {"Open": 1, "Closed": 1},
		"B": {"Open": 1, "Closed": 1},
	}, res.Matrix)
	assert.Equal(t, 4, res.GrandTotal)
	assert.Equal(t, map[string]int{"A": 2, "B": 2}, res.RowTotals)
	assert.Equal(t, map[string]int{"Open": 2, "Closed": 2}, res.ColumnTotals)
	assert.Equal(t, []string{"A", "B"}, res.XValues)
	assert.Equal(t, []string{"Closed", "Open"}, res.YValues)
	assert.Equal(t, map[string]int{"A": 2, "B": 4}, res.CumulativeByX)
	assert.Equal(t, map[string]int{"Closed": 2, "Open": 4}, res.CumulativeByY)
}

func TestAggregateSkipsBlankAxisValues(t *testing.T) {
	tbl := table.New([]string{"Cat", "Status"}, [][]string{
		{"A", "Open"},
		{" ", "Open"},
		{"B", ""},
		{"B"},
		{" B ", " Open "},
	})

	res, err := Aggregate(tbl, Request{XColumn: "Cat", YColumn: "Status"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.GrandTotal)
	assert.Equal(t, 3, res.SkippedRows)
	assert.Equal(t, 1, res.Count("B", "Open"), "values are trimmed")
}

func TestAggregateMonthlyFillsGaps(t *testing.T) {
	tbl := table.New([]string{"Date", "Cat"}, [][]string{
		{"01/01/2021", "A"},
		{"01/03/2021", "B"},
	})

	res, err := Aggregate(tbl, Request{XColumn: "Date", YColumn: "Cat", MonthlyConversion: true})
	require.NoError(t, err)

	assert.True(t, res.XMonthly)
	assert.False(t, res.YMonthly)
	assert.Equal(t, []string{"Jan 2021", "Feb 2021", "Mar 2021"}, res.XValues)
	assert.Equal(t, 0, res.RowTotals["Feb 2021"])
	assert.Equal(t, map[string]int{"Jan 2021": 1, "Feb 2021": 1, "Mar 2021": 2}, res.CumulativeByX)
}

func TestAggregateMonthlyAllMonths(t *testing.T) {
	tbl := table.New([]string{"Cat", "Date"}, [][]string{
		{"A", "15/10/2022"},
		{"B", "02/11/2022"},
	})

	res, err := Aggregate(tbl, Request{XColumn: "Cat", YColumn: "Date", MonthlyConversion: true, IncludeAllMonths: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"Oct 2022", "Nov 2022", "Dec 2022"}, res.YValues)
	for _, x := range res.XValues {
		assert.Len(t, res.Matrix[x], 3, "every X row carries every month")
	}
	assert.Equal(t, 0, res.ColumnTotals["Dec 2022"])
	assert.Equal(t, 2, res.GrandTotal)
}

func TestAggregateMonthlySortsAcrossYears(t *testing.T) {
	tbl := table.New([]string{"Date", "Cat"}, [][]string{
		{"05/01/2021", "A"},
		{"20/12/2020", "A"},
	})
	res, err := Aggregate(tbl, Request{XColumn: "Date", YColumn: "Cat", MonthlyConversion: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dec 2020", "Jan 2021"}, res.XValues)
}

func TestAggregateMonthlySkipsUnparseableDates(t *testing.T) {
	tbl := table.New([]string{"Date", "Cat"}, [][]string{
		{"01/01/2021", "A"},
		{"02/01/2021", "A"},
		{"03/01/2021", "A"},
		{"soon", "A"},
	})
	res, err := Aggregate(tbl, Request{XColumn: "Date", YColumn: "Cat", MonthlyConversion: true})
	require.NoError(t, err)
	assert.Equal(t, 3, res.GrandTotal)
	assert.Equal(t, 1, res.SkippedRows)
	assert.Equal(t, []string{"Jan 2021"}, res.XValues)
}

func TestAggregateMonthlyIgnoredForNonDateColumns(t *testing.T) {
	tbl := table.New([]string{"Cat", "Status"}, [][]string{{"A", "Open"}})
	res, err := Aggregate(tbl, Request{XColumn: "Cat", YColumn: "Status", MonthlyConversion: true})
	require.NoError(t, err)
	assert.False(t, res.XMonthly)
	assert.Equal(t, []string{"A"}, res.XValues)
}

func TestAggregateUsesReferenceForDetection(t *testing.T) {
	full := table.New([]string{"Date", "Cat"}, [][]string{
		{"01/01/2021", "A"},
		{"01/02/2021", "A"},
	})
	// The filtered view alone holds too few dates to pass detection.
	view := table.New([]string{"Date", "Cat"}, [][]string{
		{"n/a", "A"},
		{"n/a", "A"},
		{"01/02/2021", "A"},
	})
	res, err := Aggregate(view, Request{XColumn: "Date", YColumn: "Cat", MonthlyConversion: true, Reference: full})
	require.NoError(t, err)
	assert.True(t, res.XMonthly)
	assert.Equal(t, []string{"Feb 2021"}, res.XValues)
}

func TestAggregateInvalidArguments(t *testing.T) {
	tbl := table.New([]string{"Cat", "Status"}, [][]string{{"A", "Open"}})
	tests := []struct {
		name string
		req  Request
	}{
		{"empty x", Request{XColumn: "", YColumn: "Status"}},
		{"blank y", Request{XColumn: "Cat", YColumn: "  "}},
		{"unknown column", Request{XColumn: "Cat", YColumn: "Nope"}},
		{"same column", Request{XColumn: "Cat", YColumn: "cat"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Aggregate(tbl, tt.req)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.NotErrorIs(t, err, ErrNoData)
			assert.Nil(t, res)
		})
	}
}

func TestAggregateNoData(t *testing.T) {
	tbl := table.New([]string{"Cat", "Status"}, [][]string{{"A", ""}, {"", "Open"}})
	res, err := Aggregate(tbl, Request{XColumn: "Cat", YColumn: "Status"})
	assert.ErrorIs(t, err, ErrNoData)
	assert.NotErrorIs(t, err, ErrInvalidArgument)
	require.NotNil(t, res)
	assert.Zero(t, res.GrandTotal)
}

func TestAggregateInvariants(t *testing.T) {
	rows := [][]string{}
	cats := []string{"C", "A", "B", "A", "", "C", "C"}
	dates := []string{"03/02/2020", "14/05/2020", "bad", "28/02/2020", "01/01/2020", "30/06/2020", "09/09/2020"}
	for i := range cats {
		rows = append(rows, []string{cats[i], dates[i]})
	}
	tbl := table.New([]string{"Cat", "When"}, rows)

	for _, monthly := range []bool{false, true} {
		res, err := Aggregate(tbl, Request{XColumn: "Cat", YColumn: "When", MonthlyConversion: monthly})
		require.NoError(t, err)

		sum := 0
		for _, cells := range res.Matrix {
			for _, n := range cells {
				sum += n
			}
		}
		assert.Equal(t, res.GrandTotal, sum)
		assert.Equal(t, len(rows)-res.SkippedRows, res.GrandTotal)

		prev := 0
		for _, x := range res.XValues {
			assert.GreaterOrEqual(t, res.CumulativeByX[x], prev)
			prev = res.CumulativeByX[x]
		}
		assert.Equal(t, res.GrandTotal, prev)
	}
}

func TestAggregateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tbl := table.New([]string{"A", "B"}, [][]string{{"1", "2"}})
	_, err := NewAggregator(nil).Aggregate(ctx, tbl, Request{XColumn: "A", YColumn: "B"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGrid(t *testing.T) {
	tbl := table.New([]string{"Cat", "Status"}, [][]string{
		{"A", "Open"}, {"B", "Open"}, {"B", "Closed"},
	})
	res, err := Aggregate(tbl, Request{XColumn: "Cat", YColumn: "Status"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Cat \\ Status", "Closed", "Open", "Total", "Cumulative"},
		{"A", "0", "1", "1", "1"},
		{"B", "1", "1", "2", "3"},
		{"Total", "1", "2", "3", ""},
	}, res.Grid(true))
	assert.Len(t, res.Grid(false)[0], 4)
}
