package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PhaseKeyPrefix marks a document key as phase data.
const PhaseKeyPrefix = "faz"

// PhaseKey builds the key for phase number n.
func PhaseKey(n int) string {
	return PhaseKeyPrefix + strconv.Itoa(n)
}

// IsPhaseKey reports whether key carries the phase prefix.
func IsPhaseKey(key string) bool {
	return strings.HasPrefix(key, PhaseKeyPrefix)
}

// PhaseNumber returns the trailing digits of a phase key.
func PhaseNumber(key string) (int, bool) {
	end := len(key)
	start := end
	for start > 0 && key[start-1] >= '0' && key[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}
	n, err := strconv.Atoi(key[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SortPhaseKeys sorts keys by their trailing number, ties broken by key.
func SortPhaseKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		ni, oki := PhaseNumber(keys[i])
		nj, okj := PhaseNumber(keys[j])
		if oki != okj {
			return oki
		}
		if ni != nj {
			return ni < nj
		}
		return keys[i] < keys[j]
	})
}

// PhaseConfig holds display settings for a phase, independent of its items.
type PhaseConfig struct {
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// PhaseConfigs maps phase key to its display settings.
type PhaseConfigs map[string]PhaseConfig

// ChangeEntry is one row of the change-history table.
type ChangeEntry struct {
	Date   string `json:"date"`
	Change string `json:"change"`
}

// NoteEntry is one row of the errors or other-changes tables.
type NoteEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AuxTables holds the non-phase tables of the document.
type AuxTables struct {
	Changelog    []ChangeEntry `json:"changelog"`
	Errors       []NoteEntry   `json:"errors"`
	OtherChanges []NoteEntry   `json:"other_changes"`
}

// Roadmap is the in-memory document: phases of root items plus the
// authoritative phase order and the auxiliary tables.
type Roadmap struct {
	Title  string
	Phases map[string][]*Item
	Order  []string
	Names  map[string]string
	Aux    AuxTables
}

// NewRoadmap returns an empty document.
func NewRoadmap() *Roadmap {
	return &Roadmap{
		Phases: make(map[string][]*Item),
		Names:  make(map[string]string),
	}
}

// OrderedPhaseKeys resolves the serialization order: the explicit order
// filtered to phases present in the data, followed by any phase keys it
// does not mention in ascending numeric order.
func (r *Roadmap) OrderedPhaseKeys() []string {
	seen := make(map[string]bool, len(r.Phases))
	out := make([]string, 0, len(r.Phases))
	for _, key := range r.Order {
		if _, ok := r.Phases[key]; !ok || seen[key] || !IsPhaseKey(key) {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	var rest []string
	for key := range r.Phases {
		if !seen[key] && IsPhaseKey(key) {
			rest = append(rest, key)
		}
	}
	SortPhaseKeys(rest)
	return append(out, rest...)
}

// HasPhase reports whether key is a known phase.
func (r *Roadmap) HasPhase(key string) bool {
	_, ok := r.Phases[key]
	return ok
}

// Items returns the root items of a phase.
func (r *Roadmap) Items(phase string) []*Item {
	return r.Phases[phase]
}

// SetItems replaces the root items of a phase, creating it if needed.
func (r *Roadmap) SetItems(phase string, items []*Item) {
	if r.Phases == nil {
		r.Phases = make(map[string][]*Item)
	}
	if items == nil {
		items = []*Item{}
	}
	if _, ok := r.Phases[phase]; !ok && !containsKey(r.Order, phase) {
		r.Order = append(r.Order, phase)
	}
	r.Phases[phase] = items
}

// AddPhase creates an empty phase under the next free key and returns it.
func (r *Roadmap) AddPhase(name string) string {
	next := 1
	for key := range r.Phases {
		if n, ok := PhaseNumber(key); ok && n >= next {
			next = n + 1
		}
	}
	key := PhaseKey(next)
	r.SetItems(key, nil)
	if name != "" {
		if r.Names == nil {
			r.Names = make(map[string]string)
		}
		r.Names[key] = name
	}
	return key
}

// RemovePhase deletes an empty phase.
func (r *Roadmap) RemovePhase(key string) error {
	items, ok := r.Phases[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPhaseNotFound, key)
	}
	if len(items) > 0 {
		return fmt.Errorf("%w: %q has %d items", ErrPhaseNotEmpty, key, len(items))
	}
	delete(r.Phases, key)
	delete(r.Names, key)
	r.Order = removeKey(r.Order, key)
	return nil
}

// MovePhase moves phase from to the position currently held by to.
func (r *Roadmap) MovePhase(from, to string) bool {
	order := r.OrderedPhaseKeys()
	fi, ti := indexOfKey(order, from), indexOfKey(order, to)
	if fi < 0 || ti < 0 || fi == ti {
		return false
	}
	r.Order = MoveKey(order, fi, ti)
	return true
}

// Renumber re-keys the phases so the one at position i is faz<i+1>, the key
// its ordinal heading parses back to. It returns old -> new for every key
// that changed, or nil when the keys were already positional.
func (r *Roadmap) Renumber() map[string]string {
	order := r.OrderedPhaseKeys()
	renames := make(map[string]string)
	for i, key := range order {
		if next := PhaseKey(i + 1); next != key {
			renames[key] = next
		}
	}
	if len(renames) == 0 {
		return nil
	}

	phases := make(map[string][]*Item, len(r.Phases))
	names := make(map[string]string, len(r.Names))
	for k, items := range r.Phases {
		if !IsPhaseKey(k) {
			phases[k] = items
		}
	}
	keys := make([]string, len(order))
	for i, key := range order {
		next := PhaseKey(i + 1)
		phases[next] = r.Phases[key]
		if n, ok := r.Names[key]; ok {
			names[next] = n
		}
		keys[i] = next
	}
	r.Phases, r.Names, r.Order = phases, names, keys
	return renames
}

// Location describes where an item sits in the document.
type Location struct {
	Phase  string
	Item   *Item
	Parent *Item // nil for root items
	Root   *Item // the depth-0 ancestor, or the item itself
	Depth  int
	Index  int // position among its siblings
}

// Siblings returns the list the item lives in.
func (l Location) Siblings(r *Roadmap) []*Item {
	if l.Parent == nil {
		return r.Phases[l.Phase]
	}
	return l.Parent.Children
}

// TitlePath returns the titles from the root down to the item.
func (l Location) TitlePath(schema Schema) []string {
	path := []string{l.Root.Title(schema)}
	if l.Depth == 2 {
		path = append(path, l.Parent.Title(schema))
	}
	if l.Depth > 0 {
		path = append(path, l.Item.Title(schema))
	}
	return path
}

// Locate finds an item anywhere in the document.
func (r *Roadmap) Locate(id string) (Location, bool) {
	for _, phase := range r.OrderedPhaseKeys() {
		if loc, ok := LocateIn(r.Phases[phase], id); ok {
			loc.Phase = phase
			return loc, true
		}
	}
	return Location{}, false
}

// LocateIn finds an item inside one phase's root list. Phase is left empty.
func LocateIn(roots []*Item, id string) (Location, bool) {
	for i, root := range roots {
		if root.ID == id {
			return Location{Item: root, Root: root, Index: i}, true
		}
		if loc, ok := locateChild(root, root, id, 1); ok {
			return loc, true
		}
	}
	return Location{}, false
}

func locateChild(parent, root *Item, id string, depth int) (Location, bool) {
	for i, c := range parent.Children {
		if c.ID == id {
			return Location{Item: c, Parent: parent, Root: root, Depth: depth, Index: i}, true
		}
		if loc, ok := locateChild(c, root, id, depth+1); ok {
			return loc, true
		}
	}
	return Location{}, false
}

// Clone deep-copies the document.
func (r *Roadmap) Clone() *Roadmap {
	out := &Roadmap{
		Title:  r.Title,
		Phases: make(map[string][]*Item, len(r.Phases)),
		Order:  append([]string(nil), r.Order...),
		Names:  make(map[string]string, len(r.Names)),
		Aux: AuxTables{
			Changelog:    append([]ChangeEntry(nil), r.Aux.Changelog...),
			Errors:       append([]NoteEntry(nil), r.Aux.Errors...),
			OtherChanges: append([]NoteEntry(nil), r.Aux.OtherChanges...),
		},
	}
	for k, items := range r.Phases {
		cloned := CloneItems(items)
		if cloned == nil {
			cloned = []*Item{}
		}
		out.Phases[k] = cloned
	}
	for k, v := range r.Names {
		out.Names[k] = v
	}
	return out
}

// MoveKey returns a copy of keys with the element at from moved to to.
func MoveKey(keys []string, from, to int) []string {
	out := append([]string(nil), keys...)
	k := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]string{k}, out[to:]...)...)
	return out
}

func indexOfKey(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}

func containsKey(keys []string, key string) bool {
	return indexOfKey(keys, key) >= 0
}

func removeKey(keys []string, key string) []string {
	out := keys[:0:0]
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}
