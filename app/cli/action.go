package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pivotline/app"
	"pivotline/app/fileloader"
	"pivotline/app/logging"
	"pivotline/app/presets"
	"pivotline/app/query"
	"pivotline/app/settings"
	"pivotline/app/table"
)

// Action carries the per-invocation state shared by every command.
type Action struct {
	cmd      *cobra.Command
	out      io.Writer
	svc      *settings.Service
	settings settings.Settings
	logger   *logging.Adapter
}

func newAction(cmd *cobra.Command) (*Action, error) {
	a := &Action{cmd: cmd, out: cmd.OutOrStdout()}

	if path := a.getString("settings"); path != "" {
		a.svc = settings.NewServiceAt(path)
	} else {
		svc, err := settings.NewService()
		if err != nil {
			return nil, fmt.Errorf("locate settings: %w", err)
		}
		a.svc = svc
	}
	s, err := a.svc.GetSettings()
	if err != nil {
		return nil, err
	}
	a.settings = s

	level := a.getString("log-level")
	if level == "" {
		level = s.LogLevel
	}
	a.logger = logging.New(logging.Setup(level, cmd.ErrOrStderr()))
	return a, nil
}

func (a *Action) getBool(name string) bool {
	result, _ := a.cmd.Flags().GetBool(name)
	return result
}

func (a *Action) getInt(name string) int {
	result, _ := a.cmd.Flags().GetInt(name)
	return result
}

func (a *Action) getString(name string) string {
	result, _ := a.cmd.Flags().GetString(name)
	return result
}

func (a *Action) getStringArray(name string) []string {
	result, _ := a.cmd.Flags().GetStringArray(name)
	return result
}

func (a *Action) changed(name string) bool {
	return a.cmd.Flags().Changed(name)
}

func (a *Action) presetStore() *presets.Store {
	return presets.NewStore(a.svc.ResolvePath(a.settings.PresetsDir), a.logger)
}

func (a *Action) loadOptions() (fileloader.Options, error) {
	opts := fileloader.Options{
		NoHeaderRow:         a.getBool("no-header"),
		JPath:               a.getString("jpath"),
		Sheet:               a.getString("sheet"),
		Pattern:             a.getString("pattern"),
		MaxFiles:            a.settings.MaxDirectoryFiles,
		IncludeSourceColumn: a.getBool("source-column"),
	}
	delim := a.getString("delimiter")
	if delim == "" {
		delim = a.settings.CSVDelimiter
	}
	switch r := []rune(delim); {
	case delim == `\t` || strings.EqualFold(delim, "tab"):
		opts.Delimiter = '\t'
	case len(r) == 1:
		opts.Delimiter = r[0]
	default:
		return opts, fmt.Errorf("delimiter must be a single character, got %q", delim)
	}
	return opts, nil
}

// filterMode resolves --mode, falling back to the configured default.
func (a *Action) filterMode() (query.Mode, error) {
	mode := a.getString("mode")
	if mode == "" {
		mode = a.settings.DefaultFilterMode
	}
	return query.ParseMode(mode)
}

// newSession loads --file and applies --preset then every --filter.
func (a *Action) newSession() (*app.Session, error) {
	path := a.getString("file")
	if path == "" {
		return nil, fmt.Errorf("--file is required")
	}
	mode, err := a.filterMode()
	if err != nil {
		return nil, err
	}
	opts, err := a.loadOptions()
	if err != nil {
		return nil, err
	}

	s := app.NewSession(mode, a.logger)
	if err := s.Load(path, opts); err != nil {
		return nil, err
	}
	if name := a.getString("preset"); name != "" {
		applied, err := s.ApplyPreset(a.presetStore(), name)
		if err != nil {
			return nil, err
		}
		if applied.SourceChanged {
			fmt.Fprintf(a.cmd.ErrOrStderr(), "warning: preset %q was saved for a different version of %s\n", name, applied.Preset.FilePath)
		}
	}
	for _, line := range a.getStringArray("filter") {
		if _, err := s.AddFilterString(line); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (a *Action) isJSON() bool {
	return a.getString("format") == "json"
}

func (a *Action) showJSON(v any) error {
	e := json.NewEncoder(a.out)
	e.SetIndent("", "  ")
	return e.Encode(v)
}

func (a *Action) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// showGrid prints rows as aligned columns.
func (a *Action) showGrid(rows [][]string) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	return w.Flush()
}

// showTable prints t, limited to the first limit rows when limit > 0.
func (a *Action) showTable(t *table.Table, limit int) error {
	if a.isJSON() {
		records := make([]map[string]string, 0, t.Len())
		for i := range t.Rows {
			if limit > 0 && i >= limit {
				break
			}
			rec := make(map[string]string, len(t.Header))
			for j, h := range t.Header {
				rec[h] = t.Cell(i, j)
			}
			records = append(records, rec)
		}
		return a.showJSON(records)
	}
	grid := [][]string{t.Header}
	for i := range t.Rows {
		if limit > 0 && i >= limit {
			break
		}
		row := make([]string, len(t.Header))
		for j := range row {
			row[j] = t.Cell(i, j)
		}
		grid = append(grid, row)
	}
	if err := a.showGrid(grid); err != nil {
		return err
	}
	if limit > 0 && t.Len() > limit {
		a.printf("... %d more rows\n", t.Len()-limit)
	}
	return nil
}
