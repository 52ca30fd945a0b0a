package domain

// IsItemDone reports whether every status column on the item is done.
// An item under a schema without status columns is never done.
func IsItemDone(it *Item, schema Schema) bool {
	cols := schema.StatusColumns()
	if len(cols) == 0 {
		return false
	}
	for _, c := range cols {
		if it.Get(c.Key) != StatusDone {
			return false
		}
	}
	return true
}

// Tally counts done root items.
type Tally struct {
	Done  int
	Total int
}

// Ratio returns Done/Total, or 0 for an empty tally.
func (t Tally) Ratio() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Done) / float64(t.Total)
}

// PhaseTally counts a phase's root items and how many are done.
func PhaseTally(items []*Item, schema Schema) Tally {
	t := Tally{Total: len(items)}
	for _, it := range items {
		if IsItemDone(it, schema) {
			t.Done++
		}
	}
	return t
}

// ColumnTally is the done count of one status column across the document.
type ColumnTally struct {
	Column ColumnConfig
	Tally
}

// SummaryTally computes, per status column, how many root items across all
// phases carry the done glyph.
func SummaryTally(r *Roadmap, schema Schema) []ColumnTally {
	cols := schema.StatusColumns()
	out := make([]ColumnTally, len(cols))
	for i, c := range cols {
		out[i].Column = c
	}
	for _, phase := range r.OrderedPhaseKeys() {
		for _, it := range r.Phases[phase] {
			for i, c := range cols {
				out[i].Total++
				if it.Get(c.Key) == StatusDone {
					out[i].Done++
				}
			}
		}
	}
	return out
}
