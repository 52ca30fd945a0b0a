package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/roadmap/internal/cli/formatter"
	"github.com/alexanderramin/roadmap/internal/codec"
	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/reorder"
	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// boardWidth is the horizontal extent of every row rectangle. Collision
// detection only cares about rows, so any constant width works.
const boardWidth = 100

// boardRow is one visible line of the board: a phase header or an item.
type boardRow struct {
	kind   reorder.NodeType
	phase  string
	item   *domain.Item
	depth  int
	number string
	// hidden counts descendants folded under a collapsed item.
	hidden int
}

func (r boardRow) id() string {
	if r.kind == reorder.NodePhase {
		return r.phase
	}
	return r.item.ID
}

func (r boardRow) node() reorder.NodeData {
	return reorder.NodeData{ID: r.id(), Type: r.kind, Container: r.phase, Depth: r.depth}
}

type boardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Grab     key.Binding
	Drop     key.Binding
	Cancel   key.Binding
	ShiftUp  key.Binding
	ShiftDn  key.Binding
	Collapse key.Binding
	Filter   key.Binding
	Save     key.Binding
	Quit     key.Binding
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.Drop, k.ShiftUp, k.ShiftDn, k.Collapse, k.Filter, k.Save, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Grab, k.Drop, k.Cancel},
		{k.ShiftUp, k.ShiftDn, k.Collapse, k.Filter, k.Save, k.Quit},
	}
}

var boardKeys = boardKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Grab:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "grab")),
	Drop:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
	Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	ShiftUp:  key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
	ShiftDn:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
	Collapse: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "fold")),
	Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// prefsLoadedMsg carries the persisted expand/collapse state.
type prefsLoadedMsg struct {
	prefs map[string]bool
	err   error
}

// boardSavedMsg reports the result of an explicit save or a preference write.
type boardSavedMsg struct {
	what string
	err  error
}

// boardModel is the interactive drag board. Reordering goes through the
// service's engine, so the board, the CLI and the web API share one set of
// rules.
type boardModel struct {
	app *App

	rows      []boardRow
	cursor    int
	collapsed map[string]bool

	dragging bool
	dragID   string

	filter    textinput.Model
	filtering bool
	matches   map[string]bool

	help    help.Model
	message string
	err     error
	height  int
}

func newBoardModel(app *App) *boardModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter titles"
	ti.CharLimit = 80

	m := &boardModel{
		app:       app,
		collapsed: make(map[string]bool),
		filter:    ti,
		help:      help.New(),
	}
	m.rebuild()
	return m
}

func (m *boardModel) Init() tea.Cmd {
	prefs := m.app.Prefs
	if prefs == nil {
		return nil
	}
	document := m.app.Roadmap.DocumentPath()
	return func() tea.Msg {
		expanded, err := prefs.Expanded(context.Background(), document)
		return prefsLoadedMsg{prefs: expanded, err: err}
	}
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case prefsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.applyPrefs(msg.prefs)
		m.rebuild()
		return m, nil

	case boardSavedMsg:
		m.err = msg.err
		if msg.err == nil && msg.what != "" {
			m.message = msg.what
		}
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		if m.dragging {
			return m.updateDrag(msg)
		}
		return m.updateIdle(msg)
	}
	return m, nil
}

func (m *boardModel) updateIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	switch {
	case key.Matches(msg, boardKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, boardKeys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, boardKeys.Down):
		m.moveCursor(1)
	case key.Matches(msg, boardKeys.Grab):
		m.grab()
	case key.Matches(msg, boardKeys.ShiftUp):
		m.shift(-1)
	case key.Matches(msg, boardKeys.ShiftDn):
		m.shift(1)
	case key.Matches(msg, boardKeys.Collapse):
		return m, m.toggleCollapse()
	case key.Matches(msg, boardKeys.Filter):
		m.filtering = true
		return m, m.filter.Focus()
	case key.Matches(msg, boardKeys.Cancel):
		if m.matches != nil {
			m.clearFilter()
		}
	case key.Matches(msg, boardKeys.Save):
		return m, m.save()
	}
	return m, nil
}

func (m *boardModel) updateDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, boardKeys.Up):
		m.hover(-1)
	case key.Matches(msg, boardKeys.Down):
		m.hover(1)
	case key.Matches(msg, boardKeys.Drop):
		var out reorder.Outcome
		g := m.gesture()
		m.app.Roadmap.Reorder(func(e *reorder.Engine) { out = e.End(g) })
		if out.Kind == reorder.OutcomePhasesReordered {
			// Phase keys follow position, so the moved phase now has the target's key.
			m.dragID = out.To
		}
		m.finishDrag(describeOutcome(out))
	case key.Matches(msg, boardKeys.Cancel):
		m.app.Roadmap.Reorder(func(e *reorder.Engine) { e.Cancel() })
		m.finishDrag("Cancelled")
	case key.Matches(msg, boardKeys.Quit):
		m.app.Roadmap.Reorder(func(e *reorder.Engine) { e.Cancel() })
		return m, tea.Quit
	}
	return m, nil
}

func (m *boardModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.clearFilter()
		return m, nil
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter(m.filter.Value())
	return m, cmd
}

func (m *boardModel) applyFilter(query string) {
	found := m.app.Roadmap.SetFilter(query)
	if strings.TrimSpace(query) == "" {
		m.matches = nil
	} else {
		m.matches = make(map[string]bool, len(found))
		for _, f := range found {
			m.matches[f.ItemID] = true
		}
	}
	m.rebuild()
	m.cursor = 0
}

func (m *boardModel) clearFilter() {
	m.filtering = false
	m.filter.Blur()
	m.filter.SetValue("")
	m.applyFilter("")
}

func (m *boardModel) grab() {
	if len(m.rows) == 0 {
		return
	}
	row := m.rows[m.cursor]
	var ok bool
	m.app.Roadmap.Reorder(func(e *reorder.Engine) { ok = e.Start(row.node()) })
	if !ok {
		if m.matches != nil {
			m.message = "Reordering is locked while a filter is active"
		}
		return
	}
	m.dragging = true
	m.dragID = row.id()
}

// hover moves the pointer one row and lets the engine resolve the target.
// A live cross-phase move rewrites the rows, so they are rebuilt afterwards.
func (m *boardModel) hover(delta int) {
	m.moveCursor(delta)
	g := m.gesture()
	m.app.Roadmap.Reorder(func(e *reorder.Engine) { e.Over(g) })
	m.rebuild()
}

func (m *boardModel) finishDrag(message string) {
	m.dragging = false
	m.rebuild()
	m.focus(m.dragID)
	m.dragID = ""
	m.message = message
}

func (m *boardModel) shift(delta int) {
	if len(m.rows) == 0 {
		return
	}
	row := m.rows[m.cursor]
	var ok bool
	focusID := row.id()
	if row.kind == reorder.NodePhase {
		order := m.app.Roadmap.PhaseOrder()
		i := indexOf(order, row.phase) + delta
		if i >= 0 && i < len(order) {
			m.app.Roadmap.Reorder(func(e *reorder.Engine) { ok = e.ReorderPhases(row.phase, order[i]) })
			focusID = order[i]
		}
	} else {
		m.app.Roadmap.Reorder(func(e *reorder.Engine) { ok = e.Shift(row.item.ID, delta) })
	}
	if !ok {
		return
	}
	m.rebuild()
	m.focus(focusID)
}

func (m *boardModel) toggleCollapse() tea.Cmd {
	if len(m.rows) == 0 {
		return nil
	}
	row := m.rows[m.cursor]
	if row.kind != reorder.NodeItem || row.item.IsLeaf() {
		return nil
	}
	expanded := m.collapsed[row.item.ID]
	if expanded {
		delete(m.collapsed, row.item.ID)
	} else {
		m.collapsed[row.item.ID] = true
	}
	m.rebuild()
	m.focus(row.item.ID)

	prefs := m.app.Prefs
	if prefs == nil {
		return nil
	}
	itemKey, ok := service.ItemKey(m.app.Roadmap.Document(), m.app.Roadmap.Schema(), row.item.ID)
	if !ok {
		return nil
	}
	document := m.app.Roadmap.DocumentPath()
	return func() tea.Msg {
		err := prefs.SetExpanded(context.Background(), document, itemKey, expanded)
		return boardSavedMsg{err: err}
	}
}

func (m *boardModel) save() tea.Cmd {
	svc := m.app.Roadmap
	return func() tea.Msg {
		if err := svc.Save(context.Background()); err != nil {
			return boardSavedMsg{err: err}
		}
		return boardSavedMsg{what: "Saved " + svc.DocumentPath()}
	}
}

func (m *boardModel) applyPrefs(prefs map[string]bool) {
	doc := m.app.Roadmap.Document()
	schema := m.app.Roadmap.Schema()
	for _, phase := range doc.OrderedPhaseKeys() {
		domain.Walk(doc.Phases[phase], func(it *domain.Item, _ int) bool {
			if it.IsLeaf() {
				return true
			}
			if k, ok := service.ItemKey(doc, schema, it.ID); ok {
				if expanded, set := prefs[k]; set && !expanded {
					m.collapsed[it.ID] = true
				}
			}
			return true
		})
	}
}

// rebuild flattens the document into visible rows. A filter shows matching
// items flat under their phase and ignores folding.
func (m *boardModel) rebuild() {
	doc := m.app.Roadmap.Document()
	m.rows = m.rows[:0]
	for _, phase := range doc.OrderedPhaseKeys() {
		m.rows = append(m.rows, boardRow{kind: reorder.NodePhase, phase: phase})
		var walk func(items []*domain.Item, prefix string, depth int)
		walk = func(items []*domain.Item, prefix string, depth int) {
			for i, it := range items {
				number := fmt.Sprintf("%d", i+1)
				if prefix != "" {
					number = prefix + "." + number
				}
				row := boardRow{kind: reorder.NodeItem, phase: phase, item: it, depth: depth, number: number}
				if m.matches != nil {
					if m.matches[it.ID] {
						m.rows = append(m.rows, row)
					}
					walk(it.Children, number, depth+1)
					continue
				}
				if m.collapsed[it.ID] {
					row.hidden = countItems(it.Children)
					m.rows = append(m.rows, row)
					continue
				}
				m.rows = append(m.rows, row)
				walk(it.Children, number, depth+1)
			}
		}
		walk(doc.Phases[phase], "", 0)
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
}

func (m *boardModel) moveCursor(delta int) {
	m.cursor = min(max(m.cursor+delta, 0), max(len(m.rows)-1, 0))
}

func (m *boardModel) focus(id string) {
	for i, r := range m.rows {
		if r.id() == id {
			m.cursor = i
			return
		}
	}
}

// gesture describes the board as rectangles: every row is one unit tall and
// a phase container spans its header plus its visible items. The pointer
// sits in the middle of the cursor row.
func (m *boardModel) gesture() reorder.Gesture {
	var droppables []reorder.Droppable
	for i, r := range m.rows {
		rect := reorder.Rect{Left: 0, Top: float64(i), Width: boardWidth, Height: 1}
		if r.kind == reorder.NodePhase {
			end := i + 1
			for end < len(m.rows) && m.rows[end].kind == reorder.NodeItem {
				end++
			}
			rect.Height = float64(end - i)
		}
		droppables = append(droppables, reorder.Droppable{Node: r.node(), Rect: rect})
	}
	active := reorder.Rect{Left: 0, Top: float64(m.cursor), Width: boardWidth, Height: 1}
	pointer := active.Center()
	return reorder.Gesture{Pointer: &pointer, ActiveRect: active, Droppables: droppables}
}

func (m *boardModel) View() string {
	schema := m.app.Roadmap.Schema()
	settings := m.app.Roadmap.Settings()
	doc := m.app.Roadmap.Document()

	title := doc.Title
	if settings.Title != "" {
		title = settings.Title
	}
	if title == "" {
		title = codec.DefaultTitle
	}

	var b strings.Builder
	b.WriteString(formatter.Header(title))
	b.WriteString("\n\n")

	for i, r := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
		}
		if r.kind == reorder.NodePhase {
			items := doc.Phases[r.phase]
			name := codec.PhaseName(r.phase, settings.Phases, doc)
			line := formatter.PhaseStyle(settings.Phases[r.phase].Color).Render(name)
			line += " " + formatter.Dim(r.phase) + "  " + formatter.RenderTally(domain.PhaseTally(items, schema), 10)
			if m.dragging && m.dragID == r.phase {
				line = formatter.StyleYellowBold.Render("⇕ ") + line
			}
			b.WriteString(cursor + line + "\n")
			continue
		}

		indent := strings.Repeat("  ", r.depth+1)
		label := formatter.Dim(r.number) + " " + r.item.Title(schema)
		if domain.IsItemDone(r.item, schema) {
			label = formatter.StyleGreen.Render("✔ ") + label
		}
		if r.hidden > 0 {
			label += formatter.Dim(fmt.Sprintf(" ▸ +%d", r.hidden))
		}
		if m.dragging && m.dragID == r.item.ID {
			label = formatter.StyleYellowBold.Render("⇕ ") + label
		}
		cells := strings.Join(formatter.StatusCells(r.item, schema), " ")
		b.WriteString(cursor + indent + label + "  " + cells + "\n")
	}
	if len(m.rows) == 0 {
		b.WriteString(formatter.Dim("  No phases yet.") + "\n")
	}

	b.WriteString("\n")
	if m.filtering || m.matches != nil {
		b.WriteString(m.filter.View() + "\n")
	}
	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case m.message != "":
		b.WriteString(formatter.Dim(m.message) + "\n")
	}
	b.WriteString(lipgloss.NewStyle().MarginTop(1).Render(m.help.View(boardKeys)))
	return b.String()
}

func describeOutcome(out reorder.Outcome) string {
	switch out.Kind {
	case reorder.OutcomePhasesReordered:
		return fmt.Sprintf("Moved phase %s to %s", out.From, out.To)
	case reorder.OutcomeItemsReordered:
		return "Reordered"
	case reorder.OutcomeItemMoved:
		return fmt.Sprintf("Moved from %s to %s", out.From, out.To)
	default:
		return "Nothing moved"
	}
}

func countItems(items []*domain.Item) int {
	n := 0
	domain.Walk(items, func(*domain.Item, int) bool {
		n++
		return true
	})
	return n
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}
