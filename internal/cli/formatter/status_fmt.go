package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/roadmap/internal/service"
)

const statusProgressBarWidth = 10

// FormatStatus renders the per-phase completion table, the per-column
// summary and the last recorded save.
func FormatStatus(r *service.StatusReport, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header(r.Title) + "\n")
	b.WriteString(Dim(r.Document) + "\n\n")

	rows := make([][]string, 0, len(r.Phases))
	for i, p := range r.Phases {
		rows = append(rows, []string{
			fmt.Sprintf("%02d", i+1),
			PhaseStyle(p.Color).Render(p.Name),
			Dim(p.Key),
			fmt.Sprintf("%d/%d", p.Tally.Done, p.Tally.Total),
			RenderProgress(p.Tally.Ratio(), statusProgressBarWidth),
			fmt.Sprintf("%d", p.Subtasks),
		})
	}
	b.WriteString(RenderTable([]string{"#", "PHASE", "KEY", "DONE", "PROGRESS", "SUBTASKS"}, rows))

	if len(r.Columns) > 0 {
		b.WriteString("\n")
		colRows := make([][]string, 0, len(r.Columns))
		for _, c := range r.Columns {
			colRows = append(colRows, []string{
				Bold(c.Column.Label),
				fmt.Sprintf("%d/%d", c.Done, c.Total),
				RenderProgress(c.Ratio(), statusProgressBarWidth),
			})
		}
		b.WriteString(RenderTable([]string{"COLUMN", "DONE", "PROGRESS"}, colRows))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Overall: %s\n", RenderTally(r.Overall, statusProgressBarWidth)))
	switch {
	case r.LastSave != nil:
		b.WriteString(Dim(fmt.Sprintf("Last save: %s (%s, %d items)",
			HumanTimestamp(r.LastSave.SavedAt, now), FormatBytes(r.LastSave.Bytes), r.LastSave.Items)) + "\n")
	default:
		b.WriteString(Dim("Last save: never") + "\n")
	}
	if r.Pending {
		b.WriteString(StyleYellow.Render("Unsaved changes pending") + "\n")
	}
	return b.String()
}
