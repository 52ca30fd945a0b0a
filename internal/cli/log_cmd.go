package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/spf13/cobra"
)

func newLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record history and notes in the document",
	}

	var table noteTableValue
	add := &cobra.Command{
		Use:   "add TEXT [DESCRIPTION]",
		Short: "Add a change-history entry dated today, or a note with --table",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if table == "" {
				if err := app.Roadmap.AddChangelogEntry(cmd.Context(), strings.Join(args, " ")); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged change")
				return nil
			}

			var desc string
			if len(args) == 2 {
				desc = args[1]
			}
			if err := app.Roadmap.AddNote(cmd.Context(), service.NoteTable(table), args[0], desc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added note to %s\n", table)
			return nil
		},
	}
	add.Flags().Var(&table, "table", "Add to a note table instead: errors or other")

	cmd.AddCommand(add)
	return cmd
}
