package derive

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"pivotline/app/table"
)

// ArithOp is an arithmetic operator usable in a Step.
type ArithOp string

const (
	OpAdd      ArithOp = "+"
	OpSubtract ArithOp = "-"
	OpMultiply ArithOp = "*"
	OpDivide   ArithOp = "/"
	OpModulo   ArithOp = "%"
	OpPower    ArithOp = "^"
)

// Valid reports whether o is a known operator.
func (o ArithOp) Valid() bool {
	switch o {
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpModulo, OpPower:
		return true
	}
	return false
}

// Step computes Result = Operand1 <Operator> Operand2. Each operand names either
// the Result of an earlier step or a column. An empty Operand2 reads as 0.
type Step struct {
	Result   string  `json:"result"`
	Operand1 string  `json:"operand1"`
	Operator ArithOp `json:"operator"`
	Operand2 string  `json:"operand2,omitempty"`
}

func (s Step) String() string {
	return fmt.Sprintf("%s = %s %s %s", s.Result, s.Operand1, s.Operator, s.Operand2)
}

// ParseStep reads the compact form "result=operand1<op>operand2", for example
// "total=price*qty". Operands may not contain operator characters.
func ParseStep(s string) (Step, error) {
	name, expr, ok := strings.Cut(s, "=")
	if !ok {
		return Step{}, fmt.Errorf("%w: step %q has no '='", ErrInvalidArgument, s)
	}
	step := Step{Result: strings.TrimSpace(name)}
	expr = strings.TrimSpace(expr)
	// Skip a leading character so a sign is never taken for the operator.
	for i := 1; i < len(expr); i++ {
		op := ArithOp(expr[i : i+1])
		if op.Valid() {
			step.Operand1 = strings.TrimSpace(expr[:i])
			step.Operator = op
			step.Operand2 = strings.TrimSpace(expr[i+1:])
			return step, nil
		}
	}
	return Step{}, fmt.Errorf("%w: step %q has no operator", ErrInvalidArgument, s)
}

// Chain is an ordered list of steps; the last step's result is the column value.
type Chain struct {
	Steps []Step `json:"steps"`
}

// operand is a Step operand resolved once per chain.
type operand struct {
	step int // index of an earlier step, or -1
	col  int // column index, or -1
	zero bool
}

type resolvedStep struct {
	a, b operand
	op   ArithOp
}

func (c Chain) resolve(t *table.Table) ([]resolvedStep, error) {
	if len(c.Steps) == 0 {
		return nil, fmt.Errorf("%w: add at least one operation", ErrInvalidArgument)
	}
	names := map[string]int{}
	out := make([]resolvedStep, len(c.Steps))
	for i, s := range c.Steps {
		name := strings.TrimSpace(s.Result)
		if name == "" {
			return nil, fmt.Errorf("%w: operation %d has no name", ErrInvalidArgument, i+1)
		}
		if _, dup := names[name]; dup {
			return nil, fmt.Errorf("%w: duplicate operation name %q", ErrInvalidArgument, name)
		}
		if !s.Operator.Valid() {
			return nil, fmt.Errorf("%w: unknown operator %q in %s", ErrInvalidArgument, s.Operator, name)
		}
		if strings.TrimSpace(s.Operand1) == "" {
			return nil, fmt.Errorf("%w: incomplete operation %s", ErrInvalidArgument, name)
		}
		a, err := resolveOperand(t, names, s.Operand1)
		if err != nil {
			return nil, err
		}
		b, err := resolveOperand(t, names, s.Operand2)
		if err != nil {
			return nil, err
		}
		out[i] = resolvedStep{a: a, b: b, op: s.Operator}
		names[name] = i
	}
	return out, nil
}

// resolveOperand looks the name up among earlier results first, then among columns.
func resolveOperand(t *table.Table, earlier map[string]int, name string) (operand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return operand{step: -1, col: -1, zero: true}, nil
	}
	if i, ok := earlier[name]; ok {
		return operand{step: i, col: -1}, nil
	}
	if idx := t.ColumnIndex(name); idx >= 0 {
		return operand{step: -1, col: idx}, nil
	}
	return operand{}, fmt.Errorf("%w: %q is neither a column nor an earlier result", ErrInvalidArgument, name)
}

var (
	errNotNumeric = errors.New("non-numeric value")
	errDivByZero  = errors.New("division by zero")
)

func (c Chain) evaluate(t *table.Table) ([]string, error) {
	steps, err := c.resolve(t)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.Rows))
	results := make([]float64, len(steps))
	for i, row := range t.Rows {
		v, err := runSteps(steps, row, results)
		if err != nil {
			out[i] = ErrorValue
			continue
		}
		out[i] = FormatNumber(v)
	}
	return out, nil
}

func runSteps(steps []resolvedStep, row []string, results []float64) (float64, error) {
	var last float64
	for i, s := range steps {
		a, err := operandValue(s.a, row, results)
		if err != nil {
			return 0, err
		}
		b, err := operandValue(s.b, row, results)
		if err != nil {
			return 0, err
		}
		v, err := apply(a, b, s.op)
		if err != nil {
			return 0, err
		}
		results[i] = v
		last = v
	}
	return last, nil
}

func operandValue(o operand, row []string, results []float64) (float64, error) {
	switch {
	case o.zero:
		return 0, nil
	case o.step >= 0:
		return results[o.step], nil
	}
	return CellNumber(table.CellAt(row, o.col))
}

// CellNumber reads a cell as a number. Empty cells and "null" read as 0.
func CellNumber(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" || strings.EqualFold(s, "null") {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errNotNumeric, cell)
	}
	return f, nil
}

func apply(a, b float64, op ArithOp) (float64, error) {
	var v float64
	switch op {
	case OpAdd:
		v = a + b
	case OpSubtract:
		v = a - b
	case OpMultiply:
		v = a * b
	case OpDivide:
		if b == 0 {
			return 0, errDivByZero
		}
		v = a / b
	case OpModulo:
		if b == 0 {
			return 0, errDivByZero
		}
		v = math.Mod(a, b)
	case OpPower:
		v = math.Pow(a, b)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("result %v is not finite", v)
	}
	return v, nil
}

// FormatNumber renders a computed value. Whole numbers keep a trailing ".0"
// so derived columns read the same as those produced by earlier releases.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
