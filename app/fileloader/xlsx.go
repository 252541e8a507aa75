package fileloader

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"

	"pivotline/app/table"
)

// ParseXLSX reads one sheet of an XLSX workbook: options.Sheet when set,
// otherwise the first sheet.
func ParseXLSX(data []byte, options Options) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}
	sheetName := sheets[0]
	if options.Sheet != "" {
		if !slices.Contains(sheets, options.Sheet) {
			return nil, fmt.Errorf("sheet %q not found (available: %v)", options.Sheet, sheets)
		}
		sheetName = options.Sheet
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows found in sheet %q", sheetName)
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	if options.NoHeaderRow {
		return &table.Table{Header: syntheticHeaders(width), Rows: rows}, nil
	}
	// GetRows drops trailing empty cells, so pad the header to the widest row
	header := make([]string, width)
	copy(header, rows[0])
	return &table.Table{Header: NormalizeHeaders(header), Rows: rows[1:]}, nil
}
