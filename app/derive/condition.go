package derive

import (
	"fmt"
	"strings"

	"pivotline/app/query"
	"pivotline/app/table"
)

// Output is what a Condition writes for one branch: the value of Column when
// it is set, otherwise Literal.
type Output struct {
	Literal string `json:"literal,omitempty"`
	Column  string `json:"column,omitempty"`
}

// Condition writes WhenTrue or WhenFalse depending on whether the Column cell
// satisfies Operator against Value (and Value2 for Between).
type Condition struct {
	Column    string         `json:"column"`
	Operator  query.Operator `json:"operator"`
	Value     string         `json:"value,omitempty"`
	Value2    string         `json:"value2,omitempty"`
	WhenTrue  Output         `json:"whenTrue"`
	WhenFalse Output         `json:"whenFalse"`
}

// ConditionFromClause builds a Condition from a parsed filter clause. A negated
// clause swaps the two outputs.
func ConditionFromClause(c query.Clause, whenTrue, whenFalse Output) Condition {
	if c.Negate {
		whenTrue, whenFalse = whenFalse, whenTrue
	}
	return Condition{
		Column:    c.Column,
		Operator:  c.Operator,
		Value:     c.Value,
		Value2:    c.Value2,
		WhenTrue:  whenTrue,
		WhenFalse: whenFalse,
	}
}

// outputColumn resolves an Output to a column index, or -1 for a literal.
func outputColumn(t *table.Table, o Output) (int, error) {
	if strings.TrimSpace(o.Column) == "" {
		return -1, nil
	}
	idx := t.ColumnIndex(o.Column)
	if idx < 0 {
		return -1, fmt.Errorf("%w: output column %q not found", ErrInvalidArgument, o.Column)
	}
	return idx, nil
}

func (c Condition) evaluate(t *table.Table) ([]string, error) {
	if strings.TrimSpace(c.Column) == "" || c.Operator == query.OpInvalid {
		return nil, fmt.Errorf("%w: select both a column and an operator for the condition", ErrInvalidArgument)
	}
	idx := t.ColumnIndex(c.Column)
	if idx < 0 {
		return nil, fmt.Errorf("%w: condition column %q not found", ErrInvalidArgument, c.Column)
	}
	trueCol, err := outputColumn(t, c.WhenTrue)
	if err != nil {
		return nil, err
	}
	falseCol, err := outputColumn(t, c.WhenFalse)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		v := strings.TrimSpace(table.CellAt(row, idx))
		if strings.EqualFold(v, "null") {
			v = ""
		}
		if query.Compare(v, c.Value, c.Value2, c.Operator) {
			out[i] = branchValue(row, c.WhenTrue, trueCol)
		} else {
			out[i] = branchValue(row, c.WhenFalse, falseCol)
		}
	}
	return out, nil
}

func branchValue(row []string, o Output, col int) string {
	if col >= 0 {
		return table.CellAt(row, col)
	}
	return o.Literal
}
