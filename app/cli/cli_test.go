package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pivotline/app/settings"
)

const ticketsCSV = `Owner,Opened,Status,Amount
alice,03/01/2021,open,10
bob,15/01/2021,closed,20
alice,02/03/2021,closed,5
carol,20/03/2021,open,
`

type fixture struct {
	dir      string
	data     string
	settings string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "tickets.csv")
	require.NoError(t, os.WriteFile(data, []byte(ticketsCSV), 0o644))
	return fixture{dir: dir, data: data, settings: filepath.Join(dir, "pivotline.yml")}
}

// run executes the command line and returns stdout.
func (f fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--settings", f.settings, "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCount(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no filters", nil, "4 of 4 rows\n"},
		{"one filter", []string{"--filter", "Owner Equals alice"}, "2 of 4 rows\n"},
		{"and", []string{"--filter", "Owner Equals alice", "--filter", "Status Equals open"}, "1 of 4 rows\n"},
		{"or", []string{"--mode", "or", "--filter", "Owner Equals alice", "--filter", "Status Equals open"}, "3 of 4 rows\n"},
		{"negated", []string{"--filter", "NOT Amount IsEmpty"}, "3 of 4 rows\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-f", f.data}, tt.args...)
			out, err := f.run(t, append(args, "count")...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCountJSON(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "-f", f.data, "--format", "json", "--filter", "Status Equals closed", "count")
	require.NoError(t, err)
	var got map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]int{"count": 2, "total": 4}, got)
}

func TestErrors(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing file flag", []string{"count"}},
		{"bad clause", []string{"-f", f.data, "--filter", "Owner Frobs x", "count"}},
		{"bad mode", []string{"-f", f.data, "--mode", "xor", "count"}},
		{"unknown crosstab column", []string{"-f", f.data, "crosstab", "--x", "Owner", "--y", "Nope"}},
		{"same crosstab columns", []string{"-f", f.data, "crosstab", "--x", "Owner", "--y", "owner"}},
		{"derive without spec", []string{"-f", f.data, "derive", "--name", "x"}},
		{"derive unknown column", []string{"-f", f.data, "derive", "--name", "x", "--chain", "r=Nope+1"}},
		{"missing preset", []string{"-f", f.data, "--preset", "nope", "count"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.run(t, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestFilterExportCSV(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "open.csv")
	stdout, err := f.run(t, "-f", f.data, "--filter", "Status Equals open", "filter", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 2 rows")

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Owner,Opened,Status,Amount\nalice,03/01/2021,open,10\ncarol,20/03/2021,open,\n", string(b))
}

func TestFilterPrintLimit(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "-f", f.data, "filter", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.NotContains(t, out, "bob")
	assert.Contains(t, out, "... 3 more rows")
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "-f", f.data, "--format", "json", "stats", "Amount")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.EqualValues(t, 3, got["count"])
	assert.EqualValues(t, 35, got["sum"])
}

func TestValues(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "-f", f.data, "--filter", "Status Equals open", "values", "Owner")
	require.NoError(t, err)
	assert.Equal(t, "alice\ncarol\n", out)
}

func TestCrosstabMonthly(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "-f", f.data, "--format", "json", "crosstab", "--x", "Opened", "--y", "Status", "--monthly")
	require.NoError(t, err)
	var res struct {
		XValues    []string       `json:"xValues"`
		RowTotals  map[string]int `json:"rowTotals"`
		GrandTotal int            `json:"grandTotal"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"Jan 2021", "Feb 2021", "Mar 2021"}, res.XValues)
	assert.Equal(t, 0, res.RowTotals["Feb 2021"])
	assert.Equal(t, 4, res.GrandTotal)
}

func TestCrosstabNoData(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "-f", f.data, "--filter", "Owner Equals nobody", "crosstab", "--x", "Owner", "--y", "Status")
	require.NoError(t, err)
	assert.Contains(t, out, "no data")
}

func TestCrosstabExportXLSX(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.dir, "pivot.xlsx")
	_, err := f.run(t, "-f", f.data, "crosstab", "--x", "Owner", "--y", "Status", "-o", path)
	require.NoError(t, err)

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Owner \\ Status", "closed", "open", "Total", "Cumulative"}, rows[0])
	assert.Equal(t, []string{"Total", "2", "2", "4"}, rows[len(rows)-1])
}

func TestDerive(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "derived.csv")
	_, err := f.run(t, "-f", f.data, "derive", "--name", "Doubled", "--chain", "d=Amount+Amount", "-o", out)
	require.NoError(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Owner,Opened,Status,Amount,Doubled\n")
	assert.Contains(t, string(b), "alice,03/01/2021,open,10,20.0\n")
	assert.Contains(t, string(b), "carol,20/03/2021,open,,0.0\n")

	out = filepath.Join(f.dir, "flag.csv")
	_, err = f.run(t, "-f", f.data, "derive", "--name", "Flag", "--if", "Status Equals open", "--then", "todo", "--else-column", "Owner", "-o", out)
	require.NoError(t, err)
	b, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "bob,15/01/2021,closed,20,bob\n")
	assert.Contains(t, string(b), "carol,20/03/2021,open,,todo\n")
}

func TestPresetLifecycle(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "-f", f.data, "--filter", "Owner Equals alice", "preset", "save", "Alice rows")
	require.NoError(t, err)
	assert.Contains(t, out, `saved preset "Alice rows" with 1 filters`)
	assert.FileExists(t, filepath.Join(f.dir, "presets", "Alice_rows.json"))

	saved, err := settings.NewServiceAt(f.settings).GetSettings()
	require.NoError(t, err)
	require.NotEmpty(t, saved.InstanceID)
	raw, err := os.ReadFile(filepath.Join(f.dir, "presets", "Alice_rows.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"instanceId": "`+saved.InstanceID+`"`)

	out, err = f.run(t, "preset", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice rows")

	out, err = f.run(t, "-f", f.data, "--preset", "Alice rows", "count")
	require.NoError(t, err)
	assert.Equal(t, "2 of 4 rows\n", out)

	out, err = f.run(t, "preset", "show", "Alice rows")
	require.NoError(t, err)
	assert.Contains(t, out, "Owner Equals alice")

	_, err = f.run(t, "preset", "delete", "Alice rows")
	require.NoError(t, err)
	_, err = f.run(t, "preset", "show", "Alice rows")
	require.Error(t, err)
}

func TestPresetSaveRequiresFilters(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "-f", f.data, "preset", "save", "empty")
	require.Error(t, err)
}

func TestSettingsDriveDefaults(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "settings", "set", "default_filter_mode", "or")
	require.NoError(t, err)

	out, err := f.run(t, "-f", f.data, "--filter", "Owner Equals alice", "--filter", "Status Equals open", "count")
	require.NoError(t, err)
	assert.Equal(t, "3 of 4 rows\n", out)

	out, err = f.run(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "default_filter_mode: OR")

	_, err = f.run(t, "settings", "set", "colour", "red")
	require.Error(t, err)
}

func TestSemicolonDelimiterFromSettings(t *testing.T) {
	f := newFixture(t)
	data := filepath.Join(f.dir, "semi.csv")
	require.NoError(t, os.WriteFile(data, []byte("a;b\n1;2\n3;4\n"), 0o644))
	_, err := f.run(t, "settings", "set", "csv_delimiter", ";")
	require.NoError(t, err)

	out, err := f.run(t, "-f", data, "columns")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", out)
}
