package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single row in an item tree.
type TreeItem struct {
	Number string // dotted row number, e.g. "1.2"
	Title  string
	Level  int
	IsLast bool
	Done   bool
	Hidden int      // collapsed descendants not shown
	Cells  []string // pre-styled status cells, right-aligned
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders items as an indented tree with box-drawing connectors.
// Done items get a green ✔ prefix and cells are aligned in a right column.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	maxWidth := 0
	for i, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		if item.Done {
			title = StyleGreen.Render("✔ ") + Dim(title)
		}
		content := StyleDim.Render(prefix) + StyleBlue.Render(item.Number) + " " + title
		if item.Hidden > 0 {
			content += Dim(" ▸ +" + itoa(item.Hidden))
		}
		contents[i] = content
		if w := lipgloss.Width(content); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for i, item := range items {
		if len(item.Cells) == 0 {
			b.WriteString(contents[i] + "\n")
			continue
		}
		b.WriteString(PadRight(contents[i], maxWidth) + "  " + strings.Join(item.Cells, " ") + "\n")
	}
	return b.String()
}
