package cli

import (
	"fmt"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/spf13/cobra"
)

// newExpandCmd builds `expand` or `collapse`. The state is a view
// preference stored outside the document.
func newExpandCmd(app *App, expand bool) *cobra.Command {
	var all bool
	use, short := "collapse [ITEM]", "Hide an item's subtasks in show and board"
	if expand {
		use, short = "expand [ITEM]", "Show an item's subtasks in show and board"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Prefs == nil {
				return fmt.Errorf("preferences are not available")
			}
			ctx := cmd.Context()
			document := app.Roadmap.DocumentPath()
			doc := app.Roadmap.Document()
			schema := app.Roadmap.Schema()

			if all {
				if expand {
					if err := app.Prefs.Reset(ctx, document); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Expanded all items")
					return nil
				}
				prefs := make(map[string]bool)
				for _, phase := range doc.OrderedPhaseKeys() {
					domain.Walk(doc.Phases[phase], func(it *domain.Item, _ int) bool {
						if !it.IsLeaf() {
							if key, ok := service.ItemKey(doc, schema, it.ID); ok {
								prefs[key] = false
							}
						}
						return true
					})
				}
				if err := app.Prefs.SetMany(ctx, document, prefs); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Collapsed %d items\n", len(prefs))
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("an item reference or --all is required")
			}
			it, err := resolveItem(doc, schema, args[0])
			if err != nil {
				return err
			}
			key, _ := service.ItemKey(doc, schema, it.ID)
			if err := app.Prefs.SetExpanded(ctx, document, key, expand); err != nil {
				return err
			}
			verb := "Collapsed"
			if expand {
				verb = "Expanded"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q\n", verb, it.Title(schema))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Apply to every item")

	return cmd
}
