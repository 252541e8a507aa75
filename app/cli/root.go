// Package cli is the pivotline command line: every command loads the source
// named by --file, applies the persistent filters, and runs one analysis.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree writing results to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "pivotline",
		Short: "Filter, count, cross-tabulate and derive columns over CSV, XLSX and JSON tables",
		Long: `pivotline loads a table (CSV, XLSX or JSON, optionally gzip/bzip2/xz
compressed, or a whole directory of them), narrows it with filter clauses and
runs one analysis over the remaining rows.

Filter clauses use the form "[NOT ]<column> <Operator>[ <value>[ <value2>]]"
with operators Equals, IsEmpty, IsFull, LessThan, GreaterThan, LessOrEqual,
GreaterOrEqual, Has and Between.

Examples:
  pivotline -f tickets.csv --filter "Status Equals open" count
  pivotline -f tickets.csv crosstab --x Opened --y Owner --monthly
  pivotline -f tickets.csv derive --name Total --chain "t=price*qty"`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringP("file", "f", "", "source file, directory or glob pattern")
	flags.StringArray("filter", nil, "filter clause (repeatable)")
	flags.String("mode", "", "combine filters with AND or OR (default: settings default_filter_mode)")
	flags.String("preset", "", "apply the clauses of a saved preset before --filter")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (default: settings log_level)")
	flags.String("settings", "", "settings file (default: $PIVOTLINE_SETTINGS or pivotline.yml next to the binary)")
	flags.String("format", "pretty", "format results, 'json' or 'pretty'")
	flags.String("sheet", "", "XLSX sheet to read (default: first sheet)")
	flags.String("jpath", "$", "JSONPath selecting the row array in JSON sources")
	flags.String("pattern", "", "file pattern when --file is a directory (default: **/*)")
	flags.String("delimiter", "", "CSV field delimiter (default: settings csv_delimiter)")
	flags.Bool("no-header", false, "treat the first row as data")
	flags.Bool("source-column", false, "add a __source_file__ column when loading several files")

	addCommands(root)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	root := NewRootCommand(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
