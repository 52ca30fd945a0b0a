package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(id string, children ...*Item) *Item {
	return &Item{ID: id, Fields: map[string]string{TitleColumnKey: id}, Children: children}
}

func ids(items []*Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func sample() *Roadmap {
	r := NewRoadmap()
	r.SetItems("faz1", []*Item{named("A", named("A1", named("A1a"))), named("B")})
	r.SetItems("faz2", nil)
	return r
}

func TestPhaseNumber(t *testing.T) {
	n, ok := PhaseNumber("faz12")
	require.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = PhaseNumber("faz")
	assert.False(t, ok)
}

func TestOrderedPhaseKeys(t *testing.T) {
	r := NewRoadmap()
	r.Phases["faz10"] = nil
	r.Phases["faz2"] = nil
	r.Phases["faz3"] = nil
	r.Phases["misc"] = nil
	r.Order = []string{"faz3", "gone", "faz3"}

	assert.Equal(t, []string{"faz3", "faz2", "faz10"}, r.OrderedPhaseKeys())
}

func TestAddPhase_TakesNextFreeNumber(t *testing.T) {
	r := sample()

	key := r.AddPhase("Launch")

	assert.Equal(t, "faz3", key)
	assert.Equal(t, "Launch", r.Names["faz3"])
	assert.Equal(t, []string{"faz1", "faz2", "faz3"}, r.OrderedPhaseKeys())
}

func TestRemovePhase(t *testing.T) {
	r := sample()

	assert.ErrorIs(t, r.RemovePhase("faz1"), ErrPhaseNotEmpty)
	assert.ErrorIs(t, r.RemovePhase("faz9"), ErrPhaseNotFound)
	require.NoError(t, r.RemovePhase("faz2"))
	assert.Equal(t, []string{"faz1"}, r.OrderedPhaseKeys())
}

func TestMovePhase(t *testing.T) {
	r := sample()
	r.AddPhase("")

	assert.True(t, r.MovePhase("faz3", "faz1"))
	assert.Equal(t, []string{"faz3", "faz1", "faz2"}, r.OrderedPhaseKeys())
	assert.False(t, r.MovePhase("faz3", "faz3"))
	assert.False(t, r.MovePhase("faz3", "faz9"))
}

func TestRenumber_FollowsPosition(t *testing.T) {
	r := NewRoadmap()
	r.SetItems("faz1", []*Item{named("a")})
	r.SetItems("faz3", []*Item{named("c")})
	r.SetItems("faz4", nil)
	r.Names["faz1"] = "Alpha"
	r.Names["faz3"] = "Gamma"
	r.Order = []string{"faz3", "faz1", "faz4"}

	renames := r.Renumber()

	assert.Equal(t, map[string]string{"faz3": "faz1", "faz1": "faz2", "faz4": "faz3"}, renames)
	assert.Equal(t, []string{"faz1", "faz2", "faz3"}, r.OrderedPhaseKeys())
	assert.Equal(t, []string{"c"}, ids(r.Phases["faz1"]))
	assert.Equal(t, []string{"a"}, ids(r.Phases["faz2"]))
	assert.Empty(t, r.Phases["faz3"])
	assert.NotContains(t, r.Phases, "faz4")
	assert.Equal(t, map[string]string{"faz1": "Gamma", "faz2": "Alpha"}, r.Names)

	assert.Nil(t, r.Renumber(), "already positional")
}

func TestLocate(t *testing.T) {
	r := sample()

	loc, ok := r.Locate("A1a")
	require.True(t, ok)
	assert.Equal(t, "faz1", loc.Phase)
	assert.Equal(t, 2, loc.Depth)
	assert.Equal(t, "A1", loc.Parent.ID)
	assert.Equal(t, "A", loc.Root.ID)

	loc, ok = r.Locate("B")
	require.True(t, ok)
	assert.Nil(t, loc.Parent)
	assert.Equal(t, 1, loc.Index)

	_, ok = r.Locate("nope")
	assert.False(t, ok)
}

func TestInsertBelowAndChild(t *testing.T) {
	r := sample()

	require.NoError(t, r.InsertBelow("A", named("X")))
	assert.Equal(t, []string{"A", "X", "B"}, ids(r.Phases["faz1"]))

	require.NoError(t, r.InsertBelow("A1", named("A2")))
	assert.Equal(t, []string{"A1", "A2"}, ids(r.Phases["faz1"][0].Children))

	require.NoError(t, r.InsertChild("A2", named("A2a")))
	assert.ErrorIs(t, r.InsertChild("A2a", named("deep")), ErrMaxDepth)
	assert.ErrorIs(t, r.InsertChild("B", named("P", named("Q", named("R")))), ErrMaxDepth)
	assert.ErrorIs(t, r.InsertChild("nope", named("Z")), ErrItemNotFound)
}

func TestDeleteItem_RemovesSubtree(t *testing.T) {
	r := sample()

	removed, err := r.DeleteItem("A")
	require.NoError(t, err)
	assert.Equal(t, "A", removed.ID)
	assert.Equal(t, []string{"B"}, ids(r.Phases["faz1"]))
	_, ok := r.Locate("A1a")
	assert.False(t, ok)

	_, err = r.DeleteItem("A")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeleteItem_LastChildLeavesLeaf(t *testing.T) {
	r := sample()

	_, err := r.DeleteItem("A1a")
	require.NoError(t, err)

	loc, _ := r.Locate("A1")
	assert.True(t, loc.Item.IsLeaf())
}

func TestSetField_Normalizes(t *testing.T) {
	r := sample()
	schema := DefaultSchema()

	require.NoError(t, r.SetField(schema, "B", "backend", "done"))
	assert.Equal(t, StatusDone, r.Phases["faz1"][1].Get("backend"))
	assert.ErrorIs(t, r.SetField(schema, "B", "backend", "?"), ErrInvalidStatus)
	assert.ErrorIs(t, r.SetField(schema, "nope", "backend", "done"), ErrItemNotFound)
}

func TestClone_IsDeep(t *testing.T) {
	r := sample()
	c := r.Clone()

	c.Phases["faz1"][0].Children[0].Set(TitleColumnKey, "changed")
	c.Order = append(c.Order, "faz9")

	assert.Equal(t, "A1", r.Phases["faz1"][0].Children[0].Get(TitleColumnKey))
	assert.Equal(t, []string{"faz1", "faz2"}, r.Order)
	assert.NotNil(t, c.Phases["faz2"])
}

func TestItemMarshalJSON_Flat(t *testing.T) {
	it := named("A", named("A1"))

	raw, err := json.Marshal(it)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "A", m["id"])
	assert.Equal(t, "A", m[TitleColumnKey])
	children, ok := m["children"].([]any)
	require.True(t, ok)
	assert.Len(t, children, 1)

	raw, err = json.Marshal(named("leaf"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "children")
}

func TestNewItemID_Unique(t *testing.T) {
	a, b := NewItemID(), NewItemID()
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^\d+-[0-9a-f]{8}$`, a)
}

func TestProgress(t *testing.T) {
	schema := DefaultSchema()
	r := NewRoadmap()
	r.SetItems("faz1", []*Item{
		{ID: "a", Fields: map[string]string{"backend": StatusDone, "frontend": StatusDone, "test": StatusDone}},
		{ID: "b", Fields: map[string]string{"backend": StatusDone, "frontend": StatusPartial}},
	})

	tally := PhaseTally(r.Phases["faz1"], schema)
	assert.Equal(t, Tally{Done: 1, Total: 2}, tally)
	assert.InDelta(t, 0.5, tally.Ratio(), 1e-9)
	assert.Zero(t, Tally{}.Ratio())

	sum := SummaryTally(r, schema)
	require.Len(t, sum, 3)
	assert.Equal(t, "backend", sum[0].Column.Key)
	assert.Equal(t, 2, sum[0].Done)
	assert.Equal(t, 1, sum[1].Done)
}

func TestLocation_TitlePath(t *testing.T) {
	r := sample()
	schema := DefaultSchema()

	loc, _ := r.Locate("A1a")
	assert.Equal(t, []string{"A", "A1", "A1a"}, loc.TitlePath(schema))
	loc, _ = r.Locate("B")
	assert.Equal(t, []string{"B"}, loc.TitlePath(schema))
	assert.Equal(t, 4, r.CountItems())
}
