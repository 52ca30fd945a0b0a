package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive drag board",
		Long: `Open the interactive drag board.

Press space to grab a phase or item, move with j/k and drop with enter.
J/K move the row under the cursor one place, tab folds subtasks and / filters
by title. Reordering is locked while a filter is active.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("board needs an interactive terminal")
			}
			p := tea.NewProgram(newBoardModel(app), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running board: %w", err)
			}
			return nil
		},
	}
}
