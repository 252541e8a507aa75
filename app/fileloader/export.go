package fileloader

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"pivotline/app/crosstab"
	"pivotline/app/table"
)

// DefaultSheetName is used when an export is given no sheet name.
const DefaultSheetName = "Sheet1"

// WriteXLSX saves t as a single-sheet workbook at path.
func WriteXLSX(path, sheet string, t *table.Table) error {
	rows := make([][]any, 0, len(t.Rows)+1)
	rows = append(rows, toAny(t.Header))
	for _, r := range t.Rows {
		out := make([]any, len(t.Header))
		for i := range out {
			out[i] = table.CellAt(r, i)
		}
		rows = append(rows, out)
	}
	return writeSheet(path, sheet, rows, false)
}

// WriteCrosstabXLSX saves the crosstab grid with its totals row and column
// and a cumulative column. Counts are written as numbers.
func WriteCrosstabXLSX(path, sheet string, res *crosstab.Result) error {
	grid := res.Grid(true)
	rows := make([][]any, len(grid))
	for i, line := range grid {
		out := make([]any, len(line))
		for j, cell := range line {
			if n, err := strconv.Atoi(cell); err == nil && i > 0 && j > 0 {
				out[j] = n
			} else {
				out[j] = cell
			}
		}
		rows[i] = out
	}
	return writeSheet(path, sheet, rows, true)
}

func writeSheet(path, sheet string, rows [][]any, labelColumn bool) error {
	if sheet == "" {
		sheet = DefaultSheetName
	}
	f := excelize.NewFile()
	defer f.Close()
	if sheet != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return err
		}
		if labelColumn {
			end, _ := excelize.CoordinatesToCellName(1, len(rows))
			if err := f.SetCellStyle(sheet, "A1", end, bold); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
