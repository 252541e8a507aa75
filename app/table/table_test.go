package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCopiesInput(t *testing.T) {
	header := []string{"A", "B"}
	rows := [][]string{{"1", "2"}}
	tbl := New(header, rows)

	header[0] = "changed"
	rows[0][0] = "changed"

	assert.Equal(t, "A", tbl.Header[0])
	assert.Equal(t, "1", tbl.Rows[0][0])
}

func TestCellToleratesRaggedRows(t *testing.T) {
	tbl := New([]string{"A", "B"}, [][]string{{"1"}, {"1", "2", "3"}})
	assert.Equal(t, "", tbl.Cell(0, 1))
	assert.Equal(t, "2", tbl.Cell(1, 1))
	assert.Equal(t, "", tbl.Cell(5, 0))
	assert.Equal(t, "", tbl.Cell(0, -1))
}

func TestColumnIndex(t *testing.T) {
	tbl := New([]string{"Amount", " Category ", "amount"}, nil)
	assert.Equal(t, 0, tbl.ColumnIndex("Amount"))
	assert.Equal(t, 2, tbl.ColumnIndex("amount"), "exact match wins")
	assert.Equal(t, 1, tbl.ColumnIndex("category"))
	assert.Equal(t, 1, tbl.ColumnIndex("  CATEGORY"))
	assert.Equal(t, -1, tbl.ColumnIndex("missing"))
	assert.Equal(t, -1, tbl.ColumnIndex("  "))
}

func TestAddColumn(t *testing.T) {
	tbl := New([]string{"A", "B"}, [][]string{{"1", "2"}, {"3"}, {"4", "5", "extra"}})

	require.NoError(t, tbl.AddColumn("C", []string{"x", "y", "z"}))
	assert.Equal(t, []string{"A", "B", "C"}, tbl.Header)
	assert.Equal(t, []string{"1", "2", "x"}, tbl.Rows[0])
	assert.Equal(t, []string{"3", "", "y"}, tbl.Rows[1])
	assert.Equal(t, []string{"4", "5", "z"}, tbl.Rows[2])

	vals, err := tbl.Column("c")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, vals)
}

func TestAddColumnRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		column string
		values []string
	}{
		{"length mismatch", "C", []string{"x"}},
		{"blank name", "  ", []string{"x", "y"}},
		{"duplicate name", "a", []string{"x", "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := New([]string{"A"}, [][]string{{"1"}, {"2"}})
			err := tbl.AddColumn(tt.column, tt.values)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Equal(t, []string{"A"}, tbl.Header)
		})
	}
}

func TestSelect(t *testing.T) {
	tbl := New([]string{"A"}, [][]string{{"1"}, {"2"}, {"3"}})
	sub := tbl.Select([]int{2, 0, 9})
	assert.Equal(t, [][]string{{"3"}, {"1"}}, sub.Rows)

	sub.Rows[0][0] = "changed"
	assert.Equal(t, "3", tbl.Rows[2][0])
}
