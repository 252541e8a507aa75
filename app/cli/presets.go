package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pivotline/app/query"
)

func addPresetCommands(root *cobra.Command) {
	group := &cobra.Command{
		Use:   "preset",
		Short: "Save, list, show and delete filter presets",
	}
	root.AddCommand(group)

	cmd := &cobra.Command{
		Use:   "save name",
		Short: "Save the current --filter/--preset clauses for --file under a name",
		Args:  cobra.ExactArgs(1),
		RunE:  run(savePreset)}
	group.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "list",
		Short: "List saved presets, newest first",
		Args:  cobra.NoArgs,
		RunE:  run(listPresets)}
	group.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "show name",
		Short: "Show one preset",
		Args:  cobra.ExactArgs(1),
		RunE:  run(showPreset)}
	group.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "delete name",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  run(deletePreset)}
	group.AddCommand(cmd)
}

func savePreset(a *Action, args []string) error {
	s, err := a.newSession()
	if err != nil {
		return err
	}
	if len(s.Filters()) == 0 {
		return fmt.Errorf("no filters to save; pass --filter or --preset")
	}
	store := a.presetStore()
	if id, err := a.svc.EnsureInstanceID(); err != nil {
		a.logger.Log("warn", fmt.Sprintf("[PRESETS] no instance id: %v", err))
	} else {
		store.SetInstanceID(id)
	}
	p, err := s.SavePreset(store, args[0])
	if err != nil {
		return err
	}
	if a.isJSON() {
		return a.showJSON(p)
	}
	a.printf("saved preset %q with %d filters\n", p.Name, len(p.Filters))
	return nil
}

func listPresets(a *Action, args []string) error {
	list, err := a.presetStore().List()
	if err != nil {
		return err
	}
	if a.isJSON() {
		return a.showJSON(list)
	}
	if len(list) == 0 {
		a.printf("no presets in %s\n", a.presetStore().Dir())
		return nil
	}
	rows := [][]string{{"NAME", "FILTERS", "CREATED", "FILE"}}
	for _, p := range list {
		created := ""
		if !p.CreatedAt.IsZero() {
			created = p.CreatedAt.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{p.Name, fmt.Sprint(len(p.Filters)), created, p.FilePath})
	}
	return a.showGrid(rows)
}

func showPreset(a *Action, args []string) error {
	p, err := a.presetStore().Get(args[0])
	if err != nil {
		return err
	}
	if a.isJSON() {
		return a.showJSON(p)
	}
	a.printf("Name:    %s\n", p.Name)
	a.printf("File:    %s\n", p.FilePath)
	if !p.CreatedAt.IsZero() {
		a.printf("Created: %s\n", p.CreatedAt.Local().Format(time.DateTime))
	}
	a.printf("Filters:\n")
	for _, line := range p.Filters {
		marker := " "
		if _, err := query.ParseClause(line); err != nil {
			marker = "!"
		}
		a.printf("  %s %s\n", marker, line)
	}
	return nil
}

func deletePreset(a *Action, args []string) error {
	if err := a.presetStore().Delete(args[0]); err != nil {
		return err
	}
	a.printf("deleted preset %q\n", args[0])
	return nil
}

func addSettingsCommands(root *cobra.Command) {
	group := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
	}
	root.AddCommand(group)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		Args:  cobra.NoArgs,
		RunE:  run(showSettings)}
	group.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "set key value",
		Short: "Change one setting and save it",
		Args:  cobra.ExactArgs(2),
		RunE:  run(setSetting)}
	group.AddCommand(cmd)
}

func showSettings(a *Action, args []string) error {
	if a.isJSON() {
		return a.showJSON(a.settings)
	}
	b, err := yaml.Marshal(a.settings)
	if err != nil {
		return err
	}
	a.printf("# %s\n%s", a.svc.Path(), b)
	return nil
}

func setSetting(a *Action, args []string) error {
	s, err := a.svc.Set(args[0], args[1])
	if err != nil {
		return err
	}
	a.settings = s
	a.printf("%s updated in %s\n", args[0], a.svc.Path())
	return nil
}
