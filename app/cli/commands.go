package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pivotline/app/crosstab"
	"pivotline/app/derive"
	"pivotline/app/fileloader"
	"pivotline/app/query"
	"pivotline/app/table"
)

type runFunc func(a *Action, args []string) error

// run adapts a runFunc to cobra, building the Action first.
func run(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newAction(cmd)
		if err != nil {
			return err
		}
		return fn(a, args)
	}
}

func addCommands(root *cobra.Command) {
	// Rows
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print or export the rows passing the filters",
		Args:  cobra.NoArgs,
		RunE:  run(filterRows)}
	cmd.Flags().Int("limit", 50, "rows to print, 0 for all")
	cmd.Flags().StringP("out", "o", "", "write the rows to a .csv or .xlsx file instead")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "count",
		Short: "Count the rows passing the filters",
		Args:  cobra.NoArgs,
		RunE:  run(countRows)}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "columns",
		Short: "List the column names",
		Args:  cobra.NoArgs,
		RunE:  run(listColumns)}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "values column",
		Short: "List the distinct values of a column in the filtered rows",
		Args:  cobra.ExactArgs(1),
		RunE:  run(distinctValues)}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "stats column",
		Short: "Summarize the numeric values of a column in the filtered rows",
		Args:  cobra.ExactArgs(1),
		RunE:  run(columnStats)}
	root.AddCommand(cmd)

	// Analysis
	cmd = &cobra.Command{
		Use:   "crosstab",
		Short: "Count the filtered rows by two columns",
		Args:  cobra.NoArgs,
		RunE:  run(buildCrosstab)}
	cmd.Flags().String("x", "", "row column (required)")
	cmd.MarkFlagRequired("x")
	cmd.Flags().String("y", "", "column column (required)")
	cmd.MarkFlagRequired("y")
	cmd.Flags().Bool("monthly", false, "bucket date columns by month (default: settings monthly_conversion)")
	cmd.Flags().Bool("all-months", false, "extend month ranges to December (default: settings include_all_months)")
	cmd.Flags().StringP("out", "o", "", "write the grid to an .xlsx or .csv file")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "derive",
		Short: "Add a computed column and print or export the result",
		Long: `Add a computed column, either from an arithmetic chain or from a condition.

A chain is a list of steps "result=operand<op>operand" with op one of + - * / % ^.
Operands name a column, an earlier step's result, or are empty (read as 0).
The last step's result is the column value; rows that cannot be computed read ERROR.

A condition is a filter clause; matching rows get --then, others get --else.
--then-column and --else-column copy another column's value instead.`,
		Args: cobra.NoArgs,
		RunE: run(deriveColumn)}
	cmd.Flags().String("name", "", "name of the new column (required)")
	cmd.MarkFlagRequired("name")
	cmd.Flags().StringArray("chain", nil, "arithmetic step (repeatable)")
	cmd.Flags().String("if", "", "condition clause")
	cmd.Flags().String("then", "", "value when the condition holds")
	cmd.Flags().String("else", "", "value when it does not")
	cmd.Flags().String("then-column", "", "column copied when the condition holds")
	cmd.Flags().String("else-column", "", "column copied when it does not")
	cmd.Flags().Int("limit", 50, "rows to print, 0 for all")
	cmd.Flags().StringP("out", "o", "", "write the table with the new column to a .csv or .xlsx file")
	root.AddCommand(cmd)

	addPresetCommands(root)
	addSettingsCommands(root)
}

func filterRows(a *Action, args []string) error {
	s, err := a.newSession()
	if err != nil {
		return err
	}
	t, err := s.Filtered()
	if err != nil {
		return err
	}
	if out := a.getString("out"); out != "" {
		if err := a.writeTable(out, t); err != nil {
			return err
		}
		a.printf("wrote %d rows to %s\n", t.Len(), out)
		return nil
	}
	return a.showTable(t, a.getInt("limit"))
}

func countRows(a *Action, args []string) error {
	s, err := a.newSession()
	if err != nil {
		return err
	}
	n, err := s.Count()
	if err != nil {
		return err
	}
	full, _ := s.Table()
	if a.isJSON() {
		return a.showJSON(map[string]int{"count": n, "total": full.Len()})
	}
	a.printf("%d of %d rows\n", n, full.Len())
	return nil
}

func listColumns(a *Action, args []string) error {
	s, err := a.newSession()
	if err != nil {
		return err
	}
	header := s.Header()
	if a.isJSON() {
		return a.showJSON(header)
	}
	for _, h := range header {
		a.printf("%s\n", h)
	}
	return nil
}

func distinctValues(a *Action, args []string) error {
	s, err := a.newSession()
	if err != nil {
		return err
	}
	values, err := s.DistinctValues(args[0])
	if err != nil {
		return err
	}
	if a.isJSON() {
		return a.showJSON(values)
	}
	for _, v := range values {
		a.printf("%s\n", v)
	}
	return nil
}

func columnStats(a *Action, args []string) error {
	s, err := a.newSession()
	if err != nil {
		return err
	}
	sum, err := s.Statistics(args[0])
	if err != nil {
		return err
	}
	if a.isJSON() {
		return a.showJSON(sum)
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return a.showGrid([][]string{
		{"Rows", strconv.Itoa(sum.Rows)},
		{"Count", strconv.Itoa(sum.Count)},
		{"Non-numeric", strconv.Itoa(sum.NonNumeric())},
		{"Min", f(sum.Min)},
		{"Max", f(sum.Max)},
		{"Range", f(sum.Range)},
		{"Sum", f(sum.Sum)},
		{"Mean", f(sum.Mean)},
		{"Median", f(sum.Median)},
		{"Variance", f(sum.Variance)},
		{"Std dev", f(sum.StdDev)},
		{"Q1", f(sum.Q1)},
		{"Q3", f(sum.Q3)},
		{"IQR", f(sum.IQR)},
	})
}

func buildCrosstab(a *Action, args []string) error {
	s, err := a.newSession()
	if err != nil {
		return err
	}
	req := crosstab.Request{
		XColumn:           a.getString("x"),
		YColumn:           a.getString("y"),
		MonthlyConversion: a.settings.MonthlyConversion,
		IncludeAllMonths:  a.settings.IncludeAllMonths,
	}
	if a.changed("monthly") {
		req.MonthlyConversion = a.getBool("monthly")
	}
	if a.changed("all-months") {
		req.IncludeAllMonths = a.getBool("all-months")
	}

	ctx := a.cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ev := <-s.AggregateAsync(ctx, req)
	if errors.Is(ev.Err, crosstab.ErrNoData) {
		a.printf("no data: no filtered row has both %s and %s set\n", req.XColumn, req.YColumn)
		return nil
	}
	if ev.Err != nil {
		return ev.Err
	}
	res := ev.Result

	if out := a.getString("out"); out != "" {
		if err := a.writeCrosstab(out, res); err != nil {
			return err
		}
		a.printf("wrote %d x %d crosstab to %s\n", len(res.XValues), len(res.YValues), out)
		return nil
	}
	if a.isJSON() {
		return a.showJSON(res)
	}
	if err := a.showGrid(res.Grid(true)); err != nil {
		return err
	}
	if res.SkippedRows > 0 {
		a.printf("(%d rows skipped: empty value or unparseable date)\n", res.SkippedRows)
	}
	return nil
}

func deriveColumn(a *Action, args []string) error {
	spec, err := a.deriveSpec()
	if err != nil {
		return err
	}
	s, err := a.newSession()
	if err != nil {
		return err
	}
	name := a.getString("name")
	_, errs, err := s.DeriveColumn(name, spec)
	if err != nil {
		return err
	}
	if errs > 0 {
		fmt.Fprintf(a.cmd.ErrOrStderr(), "warning: %d rows of %s could not be computed\n", errs, name)
	}
	t, err := s.Filtered()
	if err != nil {
		return err
	}
	if out := a.getString("out"); out != "" {
		if err := a.writeTable(out, t); err != nil {
			return err
		}
		a.printf("wrote %d rows to %s\n", t.Len(), out)
		return nil
	}
	return a.showTable(t, a.getInt("limit"))
}

func (a *Action) deriveSpec() (derive.Spec, error) {
	steps := a.getStringArray("chain")
	cond := a.getString("if")
	switch {
	case len(steps) > 0 && cond != "":
		return nil, fmt.Errorf("use either --chain or --if, not both")
	case len(steps) > 0:
		chain := derive.Chain{}
		for _, raw := range steps {
			step, err := derive.ParseStep(raw)
			if err != nil {
				return nil, err
			}
			chain.Steps = append(chain.Steps, step)
		}
		return chain, nil
	case cond != "":
		clause, err := query.ParseClause(cond)
		if err != nil {
			return nil, err
		}
		whenTrue := derive.Output{Literal: a.getString("then"), Column: a.getString("then-column")}
		whenFalse := derive.Output{Literal: a.getString("else"), Column: a.getString("else-column")}
		return derive.ConditionFromClause(clause, whenTrue, whenFalse), nil
	default:
		return nil, fmt.Errorf("one of --chain or --if is required")
	}
}

func (a *Action) writeTable(path string, t *table.Table) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return fileloader.WriteXLSX(path, a.settings.ExportSheetName, t)
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := fileloader.WriteCSV(f, t); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unsupported export format %q (use .csv or .xlsx)", filepath.Ext(path))
	}
}

func (a *Action) writeCrosstab(path string, res *crosstab.Result) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fileloader.WriteCrosstabXLSX(path, a.settings.ExportSheetName, res)
	}
	grid := res.Grid(true)
	return a.writeTable(path, &table.Table{Header: grid[0], Rows: grid[1:]})
}
