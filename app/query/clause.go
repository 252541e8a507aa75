package query

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidClause is returned when a persisted clause string cannot be parsed.
var ErrInvalidClause = errors.New("invalid filter clause")

// Clause is one filter condition on a single column.
type Clause struct {
	Negate   bool
	Column   string
	Operator Operator
	Value    string
	Value2   string // Between only
}

// String renders the clause in its persisted form.
func (c Clause) String() string {
	return SerializeClause(c)
}

// SerializeClause renders c as "[NOT ]<column> <Operator>[ <value>[ <value2>]]".
// IsEmpty and IsFull carry no value; Between carries both values space-joined.
func SerializeClause(c Clause) string {
	var b strings.Builder
	if c.Negate {
		b.WriteString(notPrefix)
	}
	b.WriteString(c.Column)
	b.WriteByte(' ')
	b.WriteString(c.Operator.String())
	switch {
	case c.Operator.TakesSecondValue():
		b.WriteByte(' ')
		b.WriteString(c.Value)
		b.WriteByte(' ')
		b.WriteString(c.Value2)
	case c.Operator.TakesValue():
		b.WriteByte(' ')
		b.WriteString(c.Value)
	}
	return b.String()
}

const notPrefix = "NOT "

// TokenType classifies the pieces of a clause string.
type TokenType int

const (
	TokenNOT      TokenType = iota // leading negation
	TokenColumn                    // column name, may contain spaces
	TokenOperator                  // operator keyword
	TokenValue                     // everything after the operator
	TokenEOF
)

// Token is one piece of a clause string.
type Token struct {
	Type  TokenType
	Value string
}

// ClauseTokenizer splits a clause string into NOT, column, operator and value
// tokens.
//
// The operator is located by trying each keyword in scan order and taking the
// first one that appears as " <op> " or as a trailing " <op>". A column whose
// name contains an operator keyword that comes earlier in the scan order (for
// example a column "Status Equals Flag" used with Has) binds to the wrong
// operator. This matches how existing presets were written and is kept as is.
type ClauseTokenizer struct {
	input    string
	tokens   []Token
	tokenPos int
	err      error
}

// NewClauseTokenizer tokenizes input immediately.
func NewClauseTokenizer(input string) *ClauseTokenizer {
	t := &ClauseTokenizer{input: input}
	t.tokenize()
	return t
}

func (t *ClauseTokenizer) tokenize() {
	rest := t.input
	if strings.HasPrefix(rest, notPrefix) {
		t.tokens = append(t.tokens, Token{Type: TokenNOT, Value: "NOT"})
		rest = rest[len(notPrefix):]
	}

	op, at := locateOperator(rest)
	if op == OpInvalid {
		t.err = fmt.Errorf("%w: no operator in %q", ErrInvalidClause, t.input)
		t.tokens = append(t.tokens, Token{Type: TokenEOF})
		return
	}

	column := strings.TrimSpace(rest[:at])
	t.tokens = append(t.tokens,
		Token{Type: TokenColumn, Value: column},
		Token{Type: TokenOperator, Value: op.String()},
	)

	valueStart := at + len(op.String()) + 2
	if valueStart < len(rest) {
		if v := strings.TrimSpace(rest[valueStart:]); v != "" {
			t.tokens = append(t.tokens, Token{Type: TokenValue, Value: v})
		}
	}
	t.tokens = append(t.tokens, Token{Type: TokenEOF})
}

// locateOperator returns the first operator in scan order found in s and the
// byte offset of the space preceding it.
func locateOperator(s string) (Operator, int) {
	for _, op := range scanOrder {
		name := op.String()
		if i := strings.Index(s, " "+name+" "); i >= 0 {
			return op, i
		}
		if strings.HasSuffix(s, " "+name) {
			return op, len(s) - len(name) - 1
		}
	}
	return OpInvalid, -1
}

// Err returns the tokenizing error, if any.
func (t *ClauseTokenizer) Err() error {
	return t.err
}

// Peek returns the current token without consuming it.
func (t *ClauseTokenizer) Peek() Token {
	if t.tokenPos >= len(t.tokens) {
		return Token{Type: TokenEOF}
	}
	return t.tokens[t.tokenPos]
}

// Next returns the current token and advances.
func (t *ClauseTokenizer) Next() Token {
	tok := t.Peek()
	t.tokenPos++
	return tok
}

// ParseClause parses the persisted form produced by SerializeClause.
func ParseClause(s string) (Clause, error) {
	tz := NewClauseTokenizer(s)
	if err := tz.Err(); err != nil {
		return Clause{}, err
	}

	var c Clause
	if tz.Peek().Type == TokenNOT {
		tz.Next()
		c.Negate = true
	}

	col := tz.Next()
	if col.Type != TokenColumn || col.Value == "" {
		return Clause{}, fmt.Errorf("%w: missing column in %q", ErrInvalidClause, s)
	}
	c.Column = col.Value

	opTok := tz.Next()
	op, ok := ParseOperator(opTok.Value)
	if opTok.Type != TokenOperator || !ok {
		return Clause{}, fmt.Errorf("%w: missing operator in %q", ErrInvalidClause, s)
	}
	c.Operator = op

	if tz.Peek().Type == TokenValue {
		raw := tz.Next().Value
		switch {
		case op.TakesSecondValue():
			// Split at the first space; a Between without two values keeps
			// both empty and never matches.
			if first, second, found := strings.Cut(raw, " "); found {
				c.Value = strings.TrimSpace(first)
				c.Value2 = strings.TrimSpace(second)
			}
		case op.TakesValue():
			c.Value = raw
		}
	}
	return c, nil
}
