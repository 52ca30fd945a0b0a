package reorder

import "github.com/alexanderramin/roadmap/internal/domain"

// moveItem returns a copy of items with the element at from moved to to.
func moveItem(items []*domain.Item, from, to int) []*domain.Item {
	out := removeItem(items, from)
	return insertItem(out, to, items[from])
}

func removeItem(items []*domain.Item, i int) []*domain.Item {
	out := make([]*domain.Item, 0, len(items))
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func insertItem(items []*domain.Item, i int, it *domain.Item) []*domain.Item {
	if i > len(items) {
		i = len(items)
	}
	out := make([]*domain.Item, 0, len(items)+1)
	out = append(out, items[:i]...)
	out = append(out, it)
	return append(out, items[i:]...)
}

func siblingsOf(roots []*domain.Item, loc domain.Location) []*domain.Item {
	if loc.Parent == nil {
		return roots
	}
	return loc.Parent.Children
}

// withSiblings rebuilds the root list so that the sibling list of loc is
// replaced. Ancestors on the path are shallow-copied; the host's tree is
// never mutated in place.
func withSiblings(roots []*domain.Item, loc domain.Location, siblings []*domain.Item) []*domain.Item {
	if loc.Parent == nil {
		return siblings
	}
	out, _ := replaceChildren(roots, loc.Parent.ID, siblings)
	return out
}

func replaceChildren(items []*domain.Item, parentID string, children []*domain.Item) ([]*domain.Item, bool) {
	for i, it := range items {
		var cp domain.Item
		switch {
		case it.ID == parentID:
			cp = *it
			cp.Children = children
		default:
			sub, ok := replaceChildren(it.Children, parentID, children)
			if !ok {
				continue
			}
			cp = *it
			cp.Children = sub
		}
		out := append([]*domain.Item(nil), items...)
		out[i] = &cp
		return out, true
	}
	return items, false
}

func indexOfKey(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}
