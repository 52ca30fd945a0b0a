package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/roadmap/internal/cli/formatter"
	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/spf13/cobra"
)

func newColumnCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Edit the column schema",
		Long: `Columns are stored in the settings file. The title (ozellik) and
reference (prd) columns can be relabelled but not removed or retyped.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List columns",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatColumns(app.Roadmap.Schema()))
				return nil
			},
		},
		newColumnAddCmd(app),
		&cobra.Command{
			Use:     "rm KEY",
			Aliases: []string{"remove"},
			Short:   "Remove a column and its values",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Roadmap.RemoveColumn(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed column %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "retype KEY status|text|date",
			Short: "Change a column's type, converting existing values",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := parseColumnType(args[1])
				if err != nil {
					return err
				}
				if err := app.Roadmap.RetypeColumn(cmd.Context(), args[0], t); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Column %s is now %s\n", args[0], t)
				return nil
			},
		},
		&cobra.Command{
			Use:   "label KEY LABEL",
			Short: "Change a column's header label",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				label := strings.Join(args[1:], " ")
				if err := app.Roadmap.RelabelColumn(cmd.Context(), args[0], label); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Column %s is now labelled %q\n", args[0], label)
				return nil
			},
		},
	)

	return cmd
}

func newColumnAddCmd(app *App) *cobra.Command {
	var label, typ string

	cmd := &cobra.Command{
		Use:   "add KEY",
		Short: "Append a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseColumnType(typ)
			if err != nil {
				return err
			}
			c := domain.ColumnConfig{Key: strings.TrimSpace(args[0]), Label: label, Type: t}
			if err := app.Roadmap.AddColumn(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added column %s\n", c.Key)
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Header label (defaults to the key)")
	cmd.Flags().StringVar(&typ, "type", string(domain.ColumnStatus), "Column type: status, text or date")

	return cmd
}

func parseColumnType(s string) (domain.ColumnType, error) {
	t := domain.ColumnType(strings.ToLower(strings.TrimSpace(s)))
	if !domain.ValidColumnTypes[t] {
		return "", fmt.Errorf("%w: %q (want status, text or date)", domain.ErrInvalidColumnType, s)
	}
	return t, nil
}
