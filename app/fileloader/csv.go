package fileloader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"pivotline/app/table"
)

// ParseCSV reads delimited text into a table. Ragged rows are kept as they
// are; table.Cell reads missing cells as "".
func ParseCSV(data []byte, options Options) (*table.Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = options.delimiter()
	// Allow variable number of fields per record to handle corrupted CSV files
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	first, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: no rows")
		}
		return nil, fmt.Errorf("csv header: %w", err)
	}

	var header []string
	var rows [][]string
	if options.NoHeaderRow {
		header = syntheticHeaders(len(first))
		rows = append(rows, first)
	} else {
		header = NormalizeHeaders(first)
	}

	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && rec != nil {
				rows = append(rows, rec)
				continue
			}
			return nil, fmt.Errorf("csv row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return &table.Table{Header: header, Rows: rows}, nil
}

// WriteCSV writes the header and every row of t to w.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		out := make([]string, len(t.Header))
		for i := range out {
			out[i] = table.CellAt(row, i)
		}
		if err := cw.Write(out); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
