package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alexanderramin/roadmap/internal/codec"
	"github.com/alexanderramin/roadmap/internal/reorder"
	"github.com/spf13/cobra"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func newPhaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Manage phases",
	}

	cmd.AddCommand(
		newPhaseAddCmd(app),
		newPhaseRenameCmd(app),
		newPhaseMoveCmd(app),
		newPhaseRemoveCmd(app),
		newPhaseColorCmd(app),
	)

	return cmd
}

func newPhaseAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Append an empty phase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := app.Roadmap.AddPhase(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added phase %s\n", key)
			return nil
		},
	}
}

func newPhaseRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename PHASE NAME",
		Short: "Rename a phase",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := normalizePhaseKey(args[0])
			if err := app.Roadmap.RenamePhase(cmd.Context(), key, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s\n", key)
			return nil
		},
	}
}

func newPhaseMoveCmd(app *App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "move PHASE --to PHASE",
		Short: "Move a phase to the position of another phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, target := normalizePhaseKey(args[0]), normalizePhaseKey(to)
			var ok bool
			app.Roadmap.Reorder(func(e *reorder.Engine) { ok = e.ReorderPhases(from, target) })
			if !ok {
				return fmt.Errorf("cannot move %s to %s", from, target)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s\n", from)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Phase whose position to take")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newPhaseRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm PHASE",
		Aliases: []string{"remove"},
		Short:   "Remove an empty phase",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := normalizePhaseKey(args[0])
			if err := app.Roadmap.RemovePhase(cmd.Context(), key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed phase %s\n", key)
			return nil
		},
	}
}

func newPhaseColorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "color PHASE #RRGGBB",
		Short: "Set the display color of a phase",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := normalizePhaseKey(args[0])
			if !hexColorRe.MatchString(args[1]) {
				return fmt.Errorf("invalid color %q: expected #RRGGBB", args[1])
			}
			if err := app.Roadmap.SetPhaseColor(cmd.Context(), key, strings.ToLower(args[1])); err != nil {
				return err
			}
			name := codec.PhaseName(key, app.Roadmap.Settings().Phases, app.Roadmap.Document())
			fmt.Fprintf(cmd.OutOrStdout(), "Colored %s (%s)\n", key, name)
			return nil
		},
	}
}
