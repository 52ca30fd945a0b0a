package cli

import (
	"time"

	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and process-level hooks used by CLI commands.
type App struct {
	Roadmap service.RoadmapService
	// Prefs is optional; expand/collapse state is not persisted without it.
	Prefs service.PreferenceService

	// Addr is the listen address for `serve`.
	Addr string

	// IsInteractive reports whether stdin is a terminal. Prompts and the
	// board are refused when it returns false.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Defaults to a huh form.
	Confirm func(title string) (bool, error)
	// Now is the clock used for relative timestamps.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	return runConfirm(title)
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "roadmap" command. The document is
// loaded before every runnable subcommand and pending edits are flushed
// after it succeeds.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "roadmap",
		Short:         "Edit a markdown project roadmap from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Roadmap.Load(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Roadmap.Flush(cmd.Context())
		},
	}

	root.AddCommand(
		newShowCmd(app),
		newStatusCmd(app),
		newFmtCmd(app),
		newBoardCmd(app),
		newServeCmd(app),
		newItemCmd(app),
		newPhaseCmd(app),
		newColumnCmd(app),
		newLogCmd(app),
		newExpandCmd(app, true),
		newExpandCmd(app, false),
	)

	return root
}
