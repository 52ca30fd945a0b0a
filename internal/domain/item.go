package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxDepth is the deepest level an item may sit at (root = 0).
// Items at MaxDepth are always leaves.
const MaxDepth = 2

// Item is one task row. Field values are keyed by column key.
type Item struct {
	ID       string
	Fields   map[string]string
	Children []*Item
}

// NewItemID returns a creation-time id: unix millis plus a random suffix.
func NewItemID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}

// NewItem creates an item with a fresh id and a copy of fields.
func NewItem(fields map[string]string) *Item {
	f := make(map[string]string, len(fields))
	for k, v := range fields {
		f[k] = v
	}
	return &Item{ID: NewItemID(), Fields: f}
}

// Get returns the value for key, or "".
func (it *Item) Get(key string) string {
	if it.Fields == nil {
		return ""
	}
	return it.Fields[key]
}

// Set stores value under key.
func (it *Item) Set(key, value string) {
	if it.Fields == nil {
		it.Fields = make(map[string]string)
	}
	it.Fields[key] = value
}

// IsLeaf reports whether the item has no children.
func (it *Item) IsLeaf() bool {
	return len(it.Children) == 0
}

// Title returns the value of the schema's title column.
func (it *Item) Title(schema Schema) string {
	if c, ok := schema.TitleColumn(); ok {
		return it.Get(c.Key)
	}
	return it.Get(TitleColumnKey)
}

// Clone returns a deep copy of the item and its subtree. IDs are preserved.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	out := &Item{ID: it.ID, Fields: make(map[string]string, len(it.Fields))}
	for k, v := range it.Fields {
		out.Fields[k] = v
	}
	if it.Children != nil {
		out.Children = make([]*Item, len(it.Children))
		for i, c := range it.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// MarshalJSON flattens fields next to the id, matching the document shape
// {id, <columnKey>: value, children?}.
func (it *Item) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(it.Fields)+2)
	for k, v := range it.Fields {
		m[k] = v
	}
	m["id"] = it.ID
	if len(it.Children) > 0 {
		m["children"] = it.Children
	}
	return json.Marshal(m)
}

// CloneItems deep-copies a list of items.
func CloneItems(items []*Item) []*Item {
	if items == nil {
		return nil
	}
	out := make([]*Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// IndexOf returns the position of the item with id in items, or -1.
func IndexOf(items []*Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Walk visits every item depth-first with its depth. Returning false stops the walk.
func Walk(items []*Item, fn func(it *Item, depth int) bool) {
	walk(items, 0, fn)
}

func walk(items []*Item, depth int, fn func(it *Item, depth int) bool) bool {
	for _, it := range items {
		if !fn(it, depth) {
			return false
		}
		if !walk(it.Children, depth+1, fn) {
			return false
		}
	}
	return true
}
