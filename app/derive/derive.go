// Package derive computes new columns from existing ones, either through a
// chain of named arithmetic steps or through a single condition with two
// outputs.
//
// Problems with the definition itself (unknown columns, bad operators,
// duplicate step names) are reported as errors before any row is touched.
// Problems with a single row's data never abort the column: that row's value
// becomes ErrorValue and evaluation continues.
package derive

import (
	"errors"
	"fmt"

	"pivotline/app/table"
)

// ErrorValue is written for a row whose value could not be computed.
const ErrorValue = "ERROR"

// ErrInvalidArgument marks a definition rejected before evaluation.
var ErrInvalidArgument = errors.New("invalid argument")

// Spec is a column definition: a Chain or a Condition.
type Spec interface {
	evaluate(t *table.Table) ([]string, error)
}

// Column evaluates spec against every row of t and returns one value per row,
// in row order. Column names are resolved against t's current header, so
// columns added earlier in the session are available.
func Column(t *table.Table, spec Spec) ([]string, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: no table loaded", ErrInvalidArgument)
	}
	if spec == nil {
		return nil, fmt.Errorf("%w: no column definition", ErrInvalidArgument)
	}
	return spec.evaluate(t)
}

// CountErrors returns how many values are ErrorValue.
func CountErrors(values []string) int {
	n := 0
	for _, v := range values {
		if v == ErrorValue {
			n++
		}
	}
	return n
}
