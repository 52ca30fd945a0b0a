package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/reorder"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add, edit, remove and move items",
		Long: `Items are referenced as PHASE:NUMBER using the numbers printed by
"roadmap show" (e.g. faz1:2 or faz1:2.1), or as PHASE:Title/Subtitle.`,
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemSetCmd(app),
		newItemRemoveCmd(app),
		newItemMoveCmd(app),
	)

	return cmd
}

func newItemAddCmd(app *App) *cobra.Command {
	var phase, below, under string
	fields := fieldValues{}

	cmd := &cobra.Command{
		Use:   "add [TITLE]",
		Short: "Add an item to a phase, below a sibling or under a parent",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			schema := app.Roadmap.Schema()
			title, _ := schema.TitleColumn()
			values := map[string]string(fields)
			if len(args) == 1 {
				values[title.Key] = args[0]
			}

			targets := 0
			for _, s := range []string{phase, below, under} {
				if s != "" {
					targets++
				}
			}
			if targets != 1 {
				return fmt.Errorf("exactly one of --phase, --below or --under is required")
			}

			if strings.TrimSpace(values[title.Key]) == "" && app.interactive() {
				if err := promptItem(schema, values); err != nil {
					return err
				}
			}

			var (
				it  *domain.Item
				err error
			)
			switch {
			case phase != "":
				it, err = app.Roadmap.AddItem(ctx, normalizePhaseKey(phase), values)
			case below != "":
				var sibling *domain.Item
				if sibling, err = resolveItem(app.Roadmap.Document(), schema, below); err == nil {
					it, err = app.Roadmap.InsertBelow(ctx, sibling.ID, values)
				}
			default:
				var parent *domain.Item
				if parent, err = resolveItem(app.Roadmap.Document(), schema, under); err == nil {
					it, err = app.Roadmap.AddSubtask(ctx, parent.ID, values)
				}
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %q\n", it.Title(schema))
			return nil
		},
	}

	cmd.Flags().StringVar(&phase, "phase", "", "Append to this phase (e.g. faz1)")
	cmd.Flags().StringVar(&below, "below", "", "Insert directly below this item")
	cmd.Flags().StringVar(&under, "under", "", "Add as the last subtask of this item")
	cmd.Flags().Var(&fields, "set", "Column value as key=value (repeatable)")

	return cmd
}

func promptItem(schema domain.Schema, values map[string]string) error {
	ptrs := make(map[string]*string, len(schema))
	for _, c := range schema {
		v := values[c.Key]
		ptrs[c.Key] = &v
	}
	if err := itemForm(schema, ptrs).Run(); err != nil {
		return err
	}
	for k, v := range ptrs {
		values[k] = *v
	}
	return nil
}

func newItemSetCmd(app *App) *cobra.Command {
	fields := fieldValues{}

	cmd := &cobra.Command{
		Use:   "set ITEM",
		Short: "Set column values on an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(fields) == 0 {
				return fmt.Errorf("at least one --set key=value is required")
			}
			schema := app.Roadmap.Schema()
			it, err := resolveItem(app.Roadmap.Document(), schema, args[0])
			if err != nil {
				return err
			}
			for key := range fields {
				if schema.Index(key) < 0 {
					return fmt.Errorf("%w: %q", domain.ErrUnknownColumn, key)
				}
			}
			for _, c := range schema {
				v, ok := fields[c.Key]
				if !ok {
					continue
				}
				if err := app.Roadmap.SetField(cmd.Context(), it.ID, c.Key, v); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q\n", it.Title(schema))
			return nil
		},
	}

	cmd.Flags().Var(&fields, "set", "Column value as key=value (repeatable)")

	return cmd
}

func newItemRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ITEM",
		Aliases: []string{"remove"},
		Short:   "Remove an item and its subtasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := app.Roadmap.Schema()
			it, err := resolveItem(app.Roadmap.Document(), schema, args[0])
			if err != nil {
				return err
			}

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to remove %q without --yes", it.Title(schema))
				}
				prompt := fmt.Sprintf("Remove %q", it.Title(schema))
				if n := len(it.Children); n > 0 {
					prompt += fmt.Sprintf(" and its %d subtasks", n)
				}
				ok, err := app.confirm(prompt + "?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if _, err := app.Roadmap.DeleteItem(cmd.Context(), it.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", it.Title(schema))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func newItemMoveCmd(app *App) *cobra.Command {
	var phase string
	var index int
	var up, down bool

	cmd := &cobra.Command{
		Use:   "move ITEM",
		Short: "Move an item among its siblings or to another phase",
		Long: `--up/--down shift the item one place among its siblings (subtasks
included). --phase moves a root item to another phase at --index (1-based,
default last); subtasks never change phase.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := app.Roadmap.Schema()
			it, err := resolveItem(app.Roadmap.Document(), schema, args[0])
			if err != nil {
				return err
			}

			var ok bool
			switch {
			case up == down && phase == "":
				return fmt.Errorf("one of --up, --down or --phase is required")
			case up || down:
				delta := 1
				if up {
					delta = -1
				}
				app.Roadmap.Reorder(func(e *reorder.Engine) { ok = e.Shift(it.ID, delta) })
			default:
				app.Roadmap.Reorder(func(e *reorder.Engine) {
					ok = e.TransferItem(it.ID, normalizePhaseKey(phase), index-1)
				})
			}
			if !ok {
				return fmt.Errorf("cannot move %q there", it.Title(schema))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved %q\n", it.Title(schema))
			return nil
		},
	}

	cmd.Flags().StringVar(&phase, "phase", "", "Target phase")
	cmd.Flags().IntVar(&index, "index", 0, "1-based position in the target phase (default last)")
	cmd.Flags().BoolVar(&up, "up", false, "Shift one place up")
	cmd.Flags().BoolVar(&down, "down", false, "Shift one place down")
	cmd.MarkFlagsMutuallyExclusive("up", "down", "phase")

	return cmd
}
