package crosstab

import "strconv"

// TotalLabel heads the totals row and column of a rendered grid.
const TotalLabel = "Total"

// CumulativeLabel heads the cumulative column of a rendered grid.
const CumulativeLabel = "Cumulative"

// Grid renders the result as rows of text: a header row of Y values, one row
// per X value with its total, and a closing totals row. With cumulative set,
// each X row also carries its running total.
func (r *Result) Grid(cumulative bool) [][]string {
	header := make([]string, 0, len(r.YValues)+3)
	header = append(header, r.XColumn+" \\ "+r.YColumn)
	header = append(header, r.YValues...)
	header = append(header, TotalLabel)
	if cumulative {
		header = append(header, CumulativeLabel)
	}

	out := make([][]string, 0, len(r.XValues)+2)
	out = append(out, header)
	for _, xv := range r.XValues {
		row := make([]string, 0, len(header))
		row = append(row, xv)
		for _, yv := range r.YValues {
			row = append(row, strconv.Itoa(r.Matrix[xv][yv]))
		}
		row = append(row, strconv.Itoa(r.RowTotals[xv]))
		if cumulative {
			row = append(row, strconv.Itoa(r.CumulativeByX[xv]))
		}
		out = append(out, row)
	}

	totals := make([]string, 0, len(header))
	totals = append(totals, TotalLabel)
	for _, yv := range r.YValues {
		totals = append(totals, strconv.Itoa(r.ColumnTotals[yv]))
	}
	totals = append(totals, strconv.Itoa(r.GrandTotal))
	if cumulative {
		totals = append(totals, "")
	}
	return append(out, totals)
}
