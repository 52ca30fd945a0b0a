package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/roadmap/internal/cli/formatter"
	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	var phase string
	var markdown bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the roadmap as numbered trees",
		RunE: func(cmd *cobra.Command, args []string) error {
			if markdown {
				fmt.Fprint(cmd.OutOrStdout(), app.Roadmap.Markdown())
				return nil
			}

			doc := app.Roadmap.Document()
			settings := app.Roadmap.Settings()
			if settings.Title != "" {
				doc.Title = settings.Title
			}
			if phase != "" {
				phase = normalizePhaseKey(phase)
				if !doc.HasPhase(phase) {
					return fmt.Errorf("%w: %q", domain.ErrPhaseNotFound, phase)
				}
			}
			collapsed, err := collapsedIDs(cmd.Context(), app, doc, settings.Columns)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRoadmap(formatter.RoadmapView{
				Doc:       doc,
				Schema:    settings.Columns,
				Phases:    settings.Phases,
				Collapsed: collapsed,
				Phase:     phase,
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&phase, "phase", "", "Only show one phase (e.g. faz2)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print the generated markdown instead")

	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show completion per phase and per status column",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Roadmap.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatus(report, app.now()))
			return nil
		},
	}
}

func newFmtCmd(app *App) *cobra.Command {
	var stdout bool

	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Rewrite the document in the canonical table format",
		Long: `Parses the document (legacy "## FAZ N" headings included) and writes it
back with ordinal headings, dotted subtask numbers and recomputed summaries.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stdout {
				fmt.Fprint(cmd.OutOrStdout(), app.Roadmap.Markdown())
				return nil
			}
			if err := app.Roadmap.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Formatted %s\n", app.Roadmap.DocumentPath())
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the result instead of writing the file")

	return cmd
}

// collapsedIDs maps stored collapse preferences onto the ids of the loaded
// document.
func collapsedIDs(ctx context.Context, app *App, doc *domain.Roadmap, schema domain.Schema) (map[string]bool, error) {
	if app.Prefs == nil {
		return nil, nil
	}
	prefs, err := app.Prefs.Expanded(ctx, app.Roadmap.DocumentPath())
	if err != nil {
		return nil, err
	}
	collapsed := make(map[string]bool)
	for _, phase := range doc.OrderedPhaseKeys() {
		domain.Walk(doc.Phases[phase], func(it *domain.Item, _ int) bool {
			if it.IsLeaf() {
				return true
			}
			if key, ok := service.ItemKey(doc, schema, it.ID); ok {
				if expanded, set := prefs[key]; set && !expanded {
					collapsed[it.ID] = true
				}
			}
			return true
		})
	}
	return collapsed, nil
}
