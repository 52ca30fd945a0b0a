package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func phaseDrop(key string, r Rect) Droppable {
	return Droppable{Node: NodeData{ID: key, Type: NodePhase, Container: key}, Rect: r}
}

func itemDrop(id, phase string, r Rect) Droppable {
	return Droppable{Node: NodeData{ID: id, Type: NodeItem, Container: phase}, Rect: r}
}

func ids(hits []Collision) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Node.ID)
	}
	return out
}

func TestRect_ContainsExcludesFarEdges(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Width: 10, Height: 10}

	assert.True(t, r.Contains(Point{X: 0, Y: 0}))
	assert.True(t, r.Contains(Point{X: 9.9, Y: 9.9}))
	assert.False(t, r.Contains(Point{X: 10, Y: 5}))
	assert.False(t, r.Contains(Point{X: 5, Y: 10}))
}

func TestRect_IntersectionArea(t *testing.T) {
	a := Rect{Left: 0, Top: 0, Width: 10, Height: 10}

	assert.Equal(t, 25.0, a.IntersectionArea(Rect{Left: 5, Top: 5, Width: 10, Height: 10}))
	assert.Zero(t, a.IntersectionArea(Rect{Left: 10, Top: 0, Width: 5, Height: 5}))
}

func TestPointerWithin_InnermostFirst(t *testing.T) {
	in := CollisionInput{
		Pointer: &Point{X: 5, Y: 12},
		Droppables: []Droppable{
			phaseDrop("faz1", Rect{Left: 0, Top: 0, Width: 100, Height: 100}),
			itemDrop("a", "faz1", Rect{Left: 0, Top: 10, Width: 100, Height: 5}),
			itemDrop("b", "faz1", Rect{Left: 0, Top: 20, Width: 100, Height: 5}),
		},
	}

	assert.Equal(t, []string{"a", "faz1"}, ids(PointerWithin(in)))
}

func TestPointerWithin_NoPointer(t *testing.T) {
	assert.Empty(t, PointerWithin(CollisionInput{Droppables: []Droppable{
		phaseDrop("faz1", Rect{Width: 10, Height: 10}),
	}}))
}

func TestRectIntersection_LargestOverlapFirst(t *testing.T) {
	in := CollisionInput{
		ActiveRect: Rect{Left: 0, Top: 8, Width: 100, Height: 5},
		Droppables: []Droppable{
			itemDrop("a", "faz1", Rect{Left: 0, Top: 0, Width: 100, Height: 10}),
			itemDrop("b", "faz1", Rect{Left: 0, Top: 10, Width: 100, Height: 10}),
			itemDrop("far", "faz1", Rect{Left: 0, Top: 50, Width: 100, Height: 10}),
		},
	}

	assert.Equal(t, []string{"b", "a"}, ids(RectIntersection(in)))
}

func TestClosestCenter_UsesActiveRectWithoutPointer(t *testing.T) {
	in := CollisionInput{
		ActiveRect: Rect{Left: 190, Top: 0, Width: 20, Height: 20},
		Droppables: []Droppable{
			phaseDrop("faz1", Rect{Left: 0, Top: 0, Width: 100, Height: 20}),
			phaseDrop("faz2", Rect{Left: 150, Top: 0, Width: 100, Height: 20}),
		},
	}

	assert.Equal(t, []string{"faz2", "faz1"}, ids(ClosestCenter(in)))
}

func TestPolicy_FallsThroughEmptyStrategies(t *testing.T) {
	in := CollisionInput{
		ActiveRect: Rect{Left: 0, Top: 0, Width: 10, Height: 10},
		Droppables: []Droppable{itemDrop("a", "faz1", Rect{Left: 5, Top: 5, Width: 10, Height: 10})},
	}

	hits := Policy{PointerWithin, RectIntersection}.Detect(in)

	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].Node.ID)
}

func TestDefaultDetector_PhaseDragIgnoresItems(t *testing.T) {
	in := CollisionInput{
		Active:  NodeData{ID: "faz3", Type: NodePhase},
		Pointer: &Point{X: 10, Y: 10},
		Droppables: []Droppable{
			itemDrop("a", "faz1", Rect{Left: 0, Top: 0, Width: 20, Height: 20}),
			phaseDrop("faz1", Rect{Left: 0, Top: 0, Width: 100, Height: 100}),
			phaseDrop("faz2", Rect{Left: 0, Top: 100, Width: 100, Height: 100}),
		},
	}

	hits := DefaultDetector(in)

	assert.Equal(t, []string{"faz1", "faz2"}, ids(hits))
}

func TestDefaultDetector_ItemDragPrefersRowOverContainer(t *testing.T) {
	in := CollisionInput{
		Active:  NodeData{ID: "c", Type: NodeItem},
		Pointer: &Point{X: 10, Y: 2},
		Droppables: []Droppable{
			phaseDrop("faz1", Rect{Left: 0, Top: 0, Width: 100, Height: 30}),
			itemDrop("a", "faz1", Rect{Left: 0, Top: 1, Width: 100, Height: 1}),
			itemDrop("b", "faz1", Rect{Left: 0, Top: 2, Width: 100, Height: 1}),
		},
	}

	hits := DefaultDetector(in)

	require.NotEmpty(t, hits)
	assert.Equal(t, "b", hits[0].Node.ID)
}
