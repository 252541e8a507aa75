package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pivotline/app/table"
)

type recordingLogger struct {
	entries []string
}

func (l *recordingLogger) Log(level, message string) {
	l.entries = append(l.entries, level+": "+message)
}

func mustClause(t *testing.T, s string) Clause {
	t.Helper()
	c, err := ParseClause(s)
	require.NoError(t, err)
	return c
}

func TestEmptySetMatchesEverything(t *testing.T) {
	fs := NewFilterSet(ModeAnd)
	assert.True(t, fs.Evaluate([]string{"x"}, []string{"A"}))
	fs.SetMode(ModeOr)
	assert.True(t, fs.Evaluate(nil, nil))
}

func TestAddDeduplicatesByText(t *testing.T) {
	fs := NewFilterSet(ModeAnd)
	assert.True(t, fs.Add(mustClause(t, "A Equals 1")))
	assert.False(t, fs.Add(Clause{Column: "A", Operator: OpEquals, Value: "1"}))
	// Same meaning, different text: kept.
	assert.True(t, fs.Add(mustClause(t, "a Equals 1")))
	assert.Equal(t, 2, fs.Len())

	assert.True(t, fs.Remove(mustClause(t, "A Equals 1")))
	assert.False(t, fs.Remove(mustClause(t, "A Equals 1")))
	assert.Equal(t, []string{"a Equals 1"}, fs.Strings())

	fs.Clear()
	assert.Zero(t, fs.Len())
}

func TestEvaluateModes(t *testing.T) {
	header := []string{"Amount", "Cat"}
	row := []string{"10", "A"}
	pass := mustClause(t, "Amount GreaterThan 5")
	fail := mustClause(t, "Cat Equals B")

	tests := []struct {
		name    string
		mode    Mode
		clauses []Clause
		want    bool
	}{
		{"and all pass", ModeAnd, []Clause{pass, mustClause(t, "Cat Equals A")}, true},
		{"and one fails", ModeAnd, []Clause{pass, fail}, false},
		{"or one passes", ModeOr, []Clause{fail, pass}, true},
		{"or none pass", ModeOr, []Clause{fail}, false},
		{"negation inverts", ModeAnd, []Clause{mustClause(t, "NOT Cat Equals B")}, true},
		{"unknown column fails", ModeAnd, []Clause{mustClause(t, "Missing IsEmpty")}, false},
		{"unknown column fails even negated", ModeOr, []Clause{mustClause(t, "NOT Missing IsEmpty")}, false},
		{"column match is case insensitive", ModeAnd, []Clause{mustClause(t, "cat Equals A")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFilterSet(tt.mode)
			for _, c := range tt.clauses {
				fs.Add(c)
			}
			assert.Equal(t, tt.want, fs.Evaluate(row, header))
		})
	}
}

func TestEvaluateShortRowFailsClause(t *testing.T) {
	header := []string{"A", "B"}
	c := mustClause(t, "B IsEmpty")
	assert.False(t, EvaluateClause([]string{"1"}, header, c))
	assert.True(t, EvaluateClause([]string{"1", ""}, header, c))
}

func TestEvaluateClauseResolvesColumnsLikeTable(t *testing.T) {
	header := []string{"Name", "name_2", "Status"}
	row := []string{"upper", "lower", "open"}

	tests := []struct {
		clause string
		want   bool
	}{
		{"name_2 Equals lower", true},
		{"NAME Equals upper", true},
		{"status Equals open", true},
		{"Missing IsEmpty", false},
	}
	for _, tt := range tests {
		t.Run(tt.clause, func(t *testing.T) {
			c := mustClause(t, tt.clause)
			assert.Equal(t, tt.want, EvaluateClause(row, header, c))
		})
	}

	// Headers differing only by case: the exact spelling wins, as it does
	// for table.ColumnIndex.
	header = []string{"name", "Name"}
	row = []string{"first", "second"}
	assert.True(t, EvaluateClause(row, header, mustClause(t, "Name Equals second")))
	assert.Equal(t, 1, table.ColumnIndex(header, "Name"))
}

func TestFilterAmountGreaterThanFive(t *testing.T) {
	tbl := table.New([]string{"Amount", "Cat"}, [][]string{{"10", "A"}, {"20", "B"}, {"", "C"}})
	fs := NewFilterSet(ModeAnd)
	fs.Add(mustClause(t, "Amount GreaterThan 5"))

	assert.Equal(t, []int{0, 1}, fs.Matching(tbl))
	filtered := fs.Filter(tbl)
	assert.Equal(t, [][]string{{"10", "A"}, {"20", "B"}}, filtered.Rows)
	assert.Len(t, tbl.Rows, 3)
}

func TestLoadDropsCorruptClauses(t *testing.T) {
	log := &recordingLogger{}
	fs := NewFilterSet(ModeOr)
	fs.Add(mustClause(t, "Old Equals x"))

	dropped := fs.Load([]string{"Cat Equals A", "garbage", "Amount Between 1 5", "Cat Equals A"}, log)

	assert.Equal(t, 1, dropped)
	assert.Equal(t, []string{"Cat Equals A", "Amount Between 1 5"}, fs.Strings())
	assert.Equal(t, ModeOr, fs.Mode())
	require.Len(t, log.entries, 1)
	assert.Contains(t, log.entries[0], "warn: [FILTER]")
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("or")
	require.NoError(t, err)
	assert.Equal(t, ModeOr, m)
	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAnd, m)
	_, err = ParseMode("xor")
	assert.Error(t, err)
	assert.Equal(t, "OR", ModeOr.String())
}
