package query

// Operator is one of the fixed comparison operators a clause can use.
type Operator int

const (
	OpInvalid Operator = iota
	OpEquals
	OpIsEmpty
	OpIsFull
	OpLessThan
	OpGreaterThan
	OpLessOrEqual
	OpGreaterOrEqual
	OpHas
	OpBetween
)

var operatorNames = map[Operator]string{
	OpEquals:         "Equals",
	OpIsEmpty:        "IsEmpty",
	OpIsFull:         "IsFull",
	OpLessThan:       "LessThan",
	OpGreaterThan:    "GreaterThan",
	OpLessOrEqual:    "LessOrEqual",
	OpGreaterOrEqual: "GreaterOrEqual",
	OpHas:            "Has",
	OpBetween:        "Between",
}

// scanOrder is the order in which ParseClause looks for an operator keyword.
// Persisted presets depend on it; do not reorder.
var scanOrder = []Operator{
	OpEquals,
	OpIsEmpty,
	OpIsFull,
	OpLessThan,
	OpGreaterThan,
	OpLessOrEqual,
	OpGreaterOrEqual,
	OpHas,
	OpBetween,
}

// Operators returns every valid operator in scan order.
func Operators() []Operator {
	return append([]Operator(nil), scanOrder...)
}

// String returns the keyword used in the clause grammar.
func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return "Invalid"
}

// ParseOperator maps a grammar keyword to its Operator. Keywords are case-sensitive.
func ParseOperator(name string) (Operator, bool) {
	for _, op := range scanOrder {
		if operatorNames[op] == name {
			return op, true
		}
	}
	return OpInvalid, false
}

// TakesValue reports whether the operator reads a filter value.
func (o Operator) TakesValue() bool {
	return o != OpIsEmpty && o != OpIsFull && o != OpInvalid
}

// TakesSecondValue reports whether the operator reads a second filter value.
func (o Operator) TakesSecondValue() bool {
	return o == OpBetween
}

// IsOrdering reports whether the operator compares by order rather than identity.
func (o Operator) IsOrdering() bool {
	switch o {
	case OpLessThan, OpGreaterThan, OpLessOrEqual, OpGreaterOrEqual, OpBetween:
		return true
	}
	return false
}
