package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/roadmap/internal/codec"
	"github.com/alexanderramin/roadmap/internal/domain"
)

const phaseProgressBarWidth = 10

// RoadmapView is everything needed to print the document as trees.
type RoadmapView struct {
	Doc    *domain.Roadmap
	Schema domain.Schema
	Phases domain.PhaseConfigs
	// Collapsed holds the ids of items whose children are hidden.
	Collapsed map[string]bool
	// Phase restricts output to one phase key when set.
	Phase string
}

// FormatRoadmap prints every phase as a header line with its completion and
// the items as a numbered tree with their status glyphs.
func FormatRoadmap(v RoadmapView) string {
	doc := v.Doc
	if doc == nil {
		doc = domain.NewRoadmap()
	}
	var b strings.Builder
	title := doc.Title
	if title == "" {
		title = codec.DefaultTitle
	}
	b.WriteString(Header(title) + "\n")

	statusCols := v.Schema.StatusColumns()
	if len(statusCols) > 0 {
		labels := make([]string, len(statusCols))
		for i, c := range statusCols {
			labels[i] = c.Label
		}
		b.WriteString(Dim("status: "+strings.Join(labels, " · ")) + "\n")
	}

	for i, key := range doc.OrderedPhaseKeys() {
		if v.Phase != "" && key != v.Phase {
			continue
		}
		items := doc.Phases[key]
		name := codec.PhaseName(key, v.Phases, doc)
		tally := domain.PhaseTally(items, v.Schema)
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s %s  %s\n",
			PhaseStyle(v.Phases[key].Color).Render(fmt.Sprintf("%02d — %s", i+1, name)),
			Dim(key),
			RenderTally(tally, phaseProgressBarWidth),
		))
		if len(items) == 0 {
			b.WriteString("  " + Dim("(empty)") + "\n")
			continue
		}
		tree := RenderTree(TreeRows(items, v.Schema, v.Collapsed))
		for _, line := range strings.Split(strings.TrimRight(tree, "\n"), "\n") {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

// maxTitleWidth keeps the status column on screen for long titles.
const maxTitleWidth = 60

// TreeRows flattens a phase into tree rows, skipping the descendants of
// collapsed items.
func TreeRows(items []*domain.Item, schema domain.Schema, collapsed map[string]bool) []TreeItem {
	var rows []TreeItem
	var walk func(items []*domain.Item, prefix string, level int)
	walk = func(items []*domain.Item, prefix string, level int) {
		for i, it := range items {
			number := strconv.Itoa(i + 1)
			if prefix != "" {
				number = prefix + "." + number
			}
			row := TreeItem{
				Number: number,
				Title:  Truncate(it.Title(schema), maxTitleWidth),
				Level:  level,
				IsLast: i == len(items)-1,
				Done:   domain.IsItemDone(it, schema),
				Cells:  StatusCells(it, schema),
			}
			if collapsed[it.ID] {
				row.Hidden = countDescendants(it)
				rows = append(rows, row)
				continue
			}
			rows = append(rows, row)
			walk(it.Children, number, level+1)
		}
	}
	walk(items, "", 0)
	return rows
}

// StatusCells renders the item's status columns in schema order.
func StatusCells(it *domain.Item, schema domain.Schema) []string {
	cols := schema.StatusColumns()
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = StatusCell(it.Get(c.Key))
	}
	return cells
}

func countDescendants(it *domain.Item) int {
	n := 0
	domain.Walk(it.Children, func(*domain.Item, int) bool {
		n++
		return true
	})
	return n
}

func itoa(n int) string { return strconv.Itoa(n) }
