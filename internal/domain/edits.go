package domain

import "fmt"

// AppendItem adds a root item at the end of a phase.
func (r *Roadmap) AppendItem(phase string, it *Item) error {
	if !r.HasPhase(phase) {
		return fmt.Errorf("%w: %q", ErrPhaseNotFound, phase)
	}
	r.Phases[phase] = append(r.Phases[phase], it)
	return nil
}

// InsertBelow places it directly after the sibling with siblingID, at the
// sibling's depth.
func (r *Roadmap) InsertBelow(siblingID string, it *Item) error {
	loc, ok := r.Locate(siblingID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrItemNotFound, siblingID)
	}
	siblings := insertAt(loc.Siblings(r), loc.Index+1, it)
	if loc.Parent == nil {
		r.Phases[loc.Phase] = siblings
	} else {
		loc.Parent.Children = siblings
	}
	return nil
}

// InsertChild appends it to the children of parentID. Parents already at
// MaxDepth cannot take children.
func (r *Roadmap) InsertChild(parentID string, it *Item) error {
	loc, ok := r.Locate(parentID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrItemNotFound, parentID)
	}
	if loc.Depth >= MaxDepth {
		return fmt.Errorf("%w: %q is at depth %d", ErrMaxDepth, parentID, loc.Depth)
	}
	if subtreeHeight(it)+loc.Depth+1 > MaxDepth {
		return fmt.Errorf("%w: subtree too deep for %q", ErrMaxDepth, parentID)
	}
	loc.Item.Children = append(loc.Item.Children, it)
	return nil
}

// DeleteItem removes the item together with its whole subtree.
func (r *Roadmap) DeleteItem(id string) (*Item, error) {
	loc, ok := r.Locate(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrItemNotFound, id)
	}
	siblings := removeAt(loc.Siblings(r), loc.Index)
	if loc.Parent == nil {
		r.Phases[loc.Phase] = siblings
	} else {
		loc.Parent.Children = siblings
		if len(siblings) == 0 {
			loc.Parent.Children = nil
		}
	}
	return loc.Item, nil
}

// SetField stores a normalized value on the item.
func (r *Roadmap) SetField(schema Schema, id, key, raw string) error {
	loc, ok := r.Locate(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrItemNotFound, id)
	}
	v, err := schema.NormalizeValue(key, raw)
	if err != nil {
		return err
	}
	loc.Item.Set(key, v)
	return nil
}

func subtreeHeight(it *Item) int {
	h := 0
	for _, c := range it.Children {
		if ch := subtreeHeight(c) + 1; ch > h {
			h = ch
		}
	}
	return h
}

func insertAt(items []*Item, i int, it *Item) []*Item {
	out := make([]*Item, 0, len(items)+1)
	out = append(out, items[:i]...)
	out = append(out, it)
	return append(out, items[i:]...)
}

func removeAt(items []*Item, i int) []*Item {
	out := make([]*Item, 0, len(items))
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
