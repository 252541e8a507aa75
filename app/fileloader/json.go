package fileloader

import (
	"fmt"
	"sort"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"pivotline/app/table"
)

// ParseJSON reads a JSON document, or a stream of concatenated documents such
// as JSON Lines, and turns the array selected by options.JPath into a table.
func ParseJSON(data []byte, options Options) (*table.Table, error) {
	doc, err := parseJSONData(data)
	if err != nil {
		return nil, err
	}
	if options.NoHeaderRow {
		arr, err := selectArray(doc, options.jpath())
		if err != nil {
			return nil, err
		}
		if _, ok := arr[0].([]any); ok {
			rows := arrayRows(arr)
			width := 0
			for _, r := range rows {
				width = max(width, len(r))
			}
			return &table.Table{Header: syntheticHeaders(width), Rows: rows}, nil
		}
	}
	rows, err := ApplyJSONPath(doc, options.jpath())
	if err != nil {
		return nil, err
	}
	return &table.Table{Header: rows[0], Rows: rows[1:]}, nil
}

// parseJSONData parses one JSON value. When the data holds several top-level
// values they are collected into an array.
func parseJSONData(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("json: no input")
	}
	var docs []any
	p := &oj.Parser{}
	_, err := p.Parse(data, func(v any) bool {
		docs = append(docs, v)
		return false
	})
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	switch len(docs) {
	case 0:
		return nil, fmt.Errorf("json: no values")
	case 1:
		return docs[0], nil
	default:
		return docs, nil
	}
}

func selectArray(data any, expression string) ([]any, error) {
	x, err := jp.ParseString(expression)
	if err != nil {
		return nil, fmt.Errorf("jpath %q: %w", expression, err)
	}
	results := x.Get(data)
	if len(results) == 0 {
		return nil, fmt.Errorf("jpath %q matched nothing", expression)
	}
	arr, ok := results[0].([]any)
	if !ok {
		if obj, isMap := results[0].(map[string]any); isMap {
			keys := make([]string, 0, len(obj))
			for k := range obj {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("jpath %q selects an object (keys %v), not an array", expression, keys)
		}
		return nil, fmt.Errorf("jpath %q selects %T, not an array", expression, results[0])
	}
	if len(arr) == 0 {
		return nil, fmt.Errorf("jpath %q selects an empty array", expression)
	}
	return arr, nil
}

// valueToString renders nested objects and arrays as compact JSON and
// everything else with %v.
func valueToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any, []any:
		b, err := oj.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// ApplyJSONPath applies a JSONPath expression and returns a header row
// followed by data rows. The expression must select either an array of
// objects, whose keys (sorted) become the header, or an array of arrays whose
// first element is the header.
func ApplyJSONPath(data any, expression string) ([][]string, error) {
	if expression == "" {
		return nil, fmt.Errorf("jpath: empty expression")
	}
	arr, err := selectArray(data, expression)
	if err != nil {
		return nil, err
	}

	switch arr[0].(type) {
	case map[string]any:
		return objectRows(arr), nil

	case []any:
		rows := arrayRows(arr)
		rows[0] = NormalizeHeaders(rows[0])
		return rows, nil
	}
	return nil, fmt.Errorf("jpath %q: rows must be objects or arrays, got %T", expression, arr[0])
}

func arrayRows(arr []any) [][]string {
	rows := make([][]string, 0, len(arr))
	for _, item := range arr {
		items, ok := item.([]any)
		if !ok {
			continue
		}
		row := make([]string, len(items))
		for i, v := range items {
			row[i] = valueToString(v)
		}
		rows = append(rows, row)
	}
	return rows
}

// objectRows turns an array of objects into a header of every key seen,
// sorted, followed by one row per object. Non-object items are skipped.
func objectRows(arr []any) [][]string {
	keys := map[string]struct{}{}
	for _, item := range arr {
		if obj, ok := item.(map[string]any); ok {
			for k := range obj {
				keys[k] = struct{}{}
			}
		}
	}
	header := make([]string, 0, len(keys))
	for k := range keys {
		header = append(header, k)
	}
	sort.Strings(header)
	pos := make(map[string]int, len(header))
	for i, k := range header {
		pos[k] = i
	}

	out := [][]string{NormalizeHeaders(header)}
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		row := make([]string, len(header))
		for k, v := range obj {
			row[pos[k]] = valueToString(v)
		}
		out = append(out, row)
	}
	return out
}
