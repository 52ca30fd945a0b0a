package reorder

import (
	"testing"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	doc   *domain.Roadmap
	calls []string
}

func (h *fakeHost) PhaseOrder() []string                   { return h.doc.OrderedPhaseKeys() }
func (h *fakeHost) PhaseItems(phase string) []*domain.Item { return h.doc.Phases[phase] }

func (h *fakeHost) ReorderPhases(from, to string) {
	h.calls = append(h.calls, "phases")
	h.doc.MovePhase(from, to)
}

func (h *fakeHost) MoveItem(_, source, target string, newSource, newTarget []*domain.Item) {
	h.calls = append(h.calls, "move")
	h.doc.Phases[source] = newSource
	h.doc.Phases[target] = newTarget
}

func (h *fakeHost) ReorderItems(phase string, list []*domain.Item) {
	h.calls = append(h.calls, "items")
	h.doc.Phases[phase] = list
}

func node(id string, children ...*domain.Item) *domain.Item {
	return &domain.Item{ID: id, Fields: map[string]string{"ozellik": id}, Children: children}
}

// newBoard builds faz1 [A{A1,A2}, B, C], an empty faz2 and faz3 [D].
func newBoard() *fakeHost {
	doc := domain.NewRoadmap()
	doc.SetItems("faz1", []*domain.Item{node("A", node("A1"), node("A2")), node("B"), node("C")})
	doc.SetItems("faz2", nil)
	doc.SetItems("faz3", []*domain.Item{node("D")})
	return &fakeHost{doc: doc}
}

func itemIDs(items []*domain.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

// layout stacks the phases vertically, one 10-unit row per item.
func layout() []Droppable {
	return []Droppable{
		phaseDrop("faz1", Rect{Left: 0, Top: 0, Width: 100, Height: 60}),
		itemDrop("A", "faz1", Rect{Left: 0, Top: 10, Width: 100, Height: 10}),
		itemDrop("A1", "faz1", Rect{Left: 0, Top: 20, Width: 100, Height: 10}),
		itemDrop("A2", "faz1", Rect{Left: 0, Top: 30, Width: 100, Height: 10}),
		itemDrop("B", "faz1", Rect{Left: 0, Top: 40, Width: 100, Height: 10}),
		itemDrop("C", "faz1", Rect{Left: 0, Top: 50, Width: 100, Height: 10}),
		phaseDrop("faz2", Rect{Left: 0, Top: 60, Width: 100, Height: 20}),
		phaseDrop("faz3", Rect{Left: 0, Top: 80, Width: 100, Height: 20}),
		itemDrop("D", "faz3", Rect{Left: 0, Top: 90, Width: 100, Height: 10}),
	}
}

func at(x, y float64) Gesture {
	return Gesture{Pointer: &Point{X: x, Y: y}, Droppables: layout()}
}

func itemNode(id string) NodeData { return NodeData{ID: id, Type: NodeItem} }

func TestEngine_CrossPhaseHoverMovesRootLive(t *testing.T) {
	host := newBoard()
	e := New(host)

	require.True(t, e.Start(itemNode("A")))
	over := e.Over(at(50, 65))

	require.NotNil(t, over)
	assert.Equal(t, "faz2", over.Node.ID)
	assert.Equal(t, []string{"B", "C"}, itemIDs(host.doc.Phases["faz1"]))
	assert.Equal(t, []string{"A"}, itemIDs(host.doc.Phases["faz2"]))
	require.Len(t, host.doc.Phases["faz2"][0].Children, 2, "subtree travels with its root")

	out := e.End(Gesture{})
	assert.Equal(t, OutcomeItemMoved, out.Kind)
	assert.Equal(t, "faz1", out.From)
	assert.Equal(t, "faz2", out.To)
	assert.Equal(t, []string{"move"}, host.calls, "drop does not re-commit a live move")
	assert.Equal(t, StateIdle, e.State())
}

func TestEngine_HoverOverRowInsertsBeforeIt(t *testing.T) {
	host := newBoard()
	e := New(host)

	require.True(t, e.Start(itemNode("B")))
	e.Over(at(50, 95))

	assert.Equal(t, []string{"B", "D"}, itemIDs(host.doc.Phases["faz3"]))
}

func TestEngine_CancelKeepsLiveMove(t *testing.T) {
	host := newBoard()
	e := New(host)

	require.True(t, e.Start(itemNode("A")))
	e.Over(at(50, 65))
	out := e.Cancel()

	assert.Equal(t, OutcomeCancelled, out.Kind)
	assert.Equal(t, []string{"A"}, itemIDs(host.doc.Phases["faz2"]))
	assert.Equal(t, []string{"B", "C"}, itemIDs(host.doc.Phases["faz1"]))
}

func TestEngine_WorkingCopyCancelRestores(t *testing.T) {
	host := newBoard()
	e := New(host, WithWorkingCopy())

	require.True(t, e.Start(itemNode("A")))
	e.Over(at(50, 65))
	assert.Empty(t, host.calls, "working copy defers host updates")

	e.Cancel()

	assert.Equal(t, []string{"A", "B", "C"}, itemIDs(host.doc.Phases["faz1"]))
	assert.Empty(t, host.doc.Phases["faz2"])
}

func TestEngine_WorkingCopyCommitsOnDrop(t *testing.T) {
	host := newBoard()
	e := New(host, WithWorkingCopy())

	require.True(t, e.Start(itemNode("C")))
	e.Over(at(50, 85))
	out := e.End(Gesture{})

	assert.Equal(t, OutcomeItemMoved, out.Kind)
	assert.Equal(t, []string{"move"}, host.calls)
	assert.Equal(t, []string{"D", "C"}, itemIDs(host.doc.Phases["faz3"]))
	assert.Equal(t, []string{"A", "B"}, itemIDs(host.doc.Phases["faz1"]))
}

func TestEngine_SubtaskNeverChangesPhase(t *testing.T) {
	host := newBoard()
	e := New(host)

	require.True(t, e.Start(itemNode("A1")))
	e.Over(at(50, 65))
	out := e.End(Gesture{})

	assert.Equal(t, OutcomeNone, out.Kind)
	assert.Empty(t, host.calls)
	assert.Empty(t, host.doc.Phases["faz2"])
	assert.Equal(t, []string{"A1", "A2"}, itemIDs(host.doc.Phases["faz1"][0].Children))
}

func TestEngine_SamePhaseDropReorders(t *testing.T) {
	host := newBoard()
	e := New(host)

	require.True(t, e.Start(itemNode("C")))
	out := e.End(at(50, 15))

	assert.Equal(t, OutcomeItemsReordered, out.Kind)
	assert.Equal(t, []string{"C", "A", "B"}, itemIDs(host.doc.Phases["faz1"]))
}

func TestEngine_RootDroppedOnSubtaskTakesItsRootSlot(t *testing.T) {
	host := newBoard()
	e := New(host)

	require.True(t, e.Start(itemNode("C")))
	e.End(at(50, 25))

	assert.Equal(t, []string{"C", "A", "B"}, itemIDs(host.doc.Phases["faz1"]))
}

func TestEngine_SubtaskReorderStaysInParent(t *testing.T) {
	host := newBoard()
	original := host.doc.Phases["faz1"][0]
	e := New(host)

	require.True(t, e.Start(itemNode("A2")))
	out := e.End(at(50, 25))

	assert.Equal(t, OutcomeItemsReordered, out.Kind)
	assert.Equal(t, []string{"A", "B", "C"}, itemIDs(host.doc.Phases["faz1"]))
	assert.Equal(t, []string{"A2", "A1"}, itemIDs(host.doc.Phases["faz1"][0].Children))
	assert.Equal(t, []string{"A1", "A2"}, itemIDs(original.Children), "host tree is not mutated in place")
}

func TestEngine_DropOnSelfIsNoop(t *testing.T) {
	host := newBoard()
	e := New(host)

	require.True(t, e.Start(itemNode("B")))
	out := e.End(at(50, 45))

	assert.Equal(t, OutcomeNone, out.Kind)
	assert.Empty(t, host.calls)
}

func TestEngine_PhaseDragUsesClosestCenter(t *testing.T) {
	host := newBoard()
	e := New(host)

	require.True(t, e.Start(NodeData{ID: "faz3", Type: NodePhase}))
	out := e.End(at(50, 12))

	assert.Equal(t, OutcomePhasesReordered, out.Kind)
	assert.Equal(t, "faz1", out.To)
	assert.Equal(t, []string{"faz3", "faz1", "faz2"}, host.doc.Order)
}

func TestEngine_FilterLocksEverything(t *testing.T) {
	host := newBoard()
	e := New(host)
	e.SetFilterActive(true)

	assert.False(t, e.Start(itemNode("A")))
	assert.Nil(t, e.Over(at(50, 65)))
	assert.Equal(t, OutcomeNone, e.End(at(50, 65)).Kind)
	assert.False(t, e.ReorderItems("faz1", 0, 2))
	assert.False(t, e.ReorderPhases("faz1", "faz3"))
	assert.False(t, e.TransferItem("A", "faz2", 0))
	assert.False(t, e.Shift("B", -1))

	assert.Empty(t, host.calls)
	assert.Equal(t, []string{"A", "B", "C"}, itemIDs(host.doc.Phases["faz1"]))
}

func TestEngine_FilterCancelsActiveDrag(t *testing.T) {
	host := newBoard()
	e := New(host)

	require.True(t, e.Start(itemNode("B")))
	e.SetFilterActive(true)

	assert.Equal(t, StateIdle, e.State())
	assert.True(t, e.FilterActive())
}

func TestEngine_StartRefusesUnknownAndBusy(t *testing.T) {
	e := New(newBoard())

	assert.False(t, e.Start(itemNode("nope")))
	assert.False(t, e.Start(NodeData{ID: "faz9", Type: NodePhase}))
	require.True(t, e.Start(itemNode("A")))
	assert.False(t, e.Start(itemNode("B")))
}

func TestEngine_DirectReorders(t *testing.T) {
	host := newBoard()
	e := New(host)

	assert.True(t, e.ReorderItems("faz1", 0, 2))
	assert.Equal(t, []string{"B", "C", "A"}, itemIDs(host.doc.Phases["faz1"]))
	assert.False(t, e.ReorderItems("faz1", 0, 9))

	assert.True(t, e.Shift("A2", -1))
	assert.Equal(t, []string{"A2", "A1"}, itemIDs(host.doc.Phases["faz1"][2].Children))
	assert.False(t, e.Shift("A2", -1))

	assert.True(t, e.TransferItem("B", "faz3", 0))
	assert.Equal(t, []string{"B", "D"}, itemIDs(host.doc.Phases["faz3"]))
	assert.False(t, e.TransferItem("A1", "faz2", 0), "subtasks cannot change phase")
}
