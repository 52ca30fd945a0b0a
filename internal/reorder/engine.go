// Package reorder implements the drag controller for the phase/item board:
// gesture state, collision detection and the ordering mutations reported
// back to the host.
package reorder

import (
	"github.com/alexanderramin/roadmap/internal/domain"
)

// Host owns the tree. The engine reads it through PhaseOrder/PhaseItems and
// reports every change through the three mutation callbacks; the host applies
// them to its own state and schedules persistence.
type Host interface {
	PhaseOrder() []string
	PhaseItems(phase string) []*domain.Item
	ReorderPhases(fromKey, toKey string)
	MoveItem(itemID, sourcePhase, targetPhase string, newSource, newTarget []*domain.Item)
	ReorderItems(phaseKey string, newList []*domain.Item)
}

type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	if s == StateDragging {
		return "dragging"
	}
	return "idle"
}

// PreviewMode selects how cross-phase hovers are applied.
type PreviewMode int

const (
	// PreviewLive moves the item in the host as soon as the hover is seen.
	// Cancelling afterwards leaves the move in place.
	PreviewLive PreviewMode = iota
	// PreviewWorkingCopy applies hover moves to an engine-local copy and
	// reports a single MoveItem on drop. Cancel discards the copy.
	PreviewWorkingCopy
)

type OutcomeKind string

const (
	OutcomeNone            OutcomeKind = "none"
	OutcomeCancelled       OutcomeKind = "cancelled"
	OutcomePhasesReordered OutcomeKind = "phases_reordered"
	OutcomeItemsReordered  OutcomeKind = "items_reordered"
	OutcomeItemMoved       OutcomeKind = "item_moved"
)

// Outcome describes what a finished gesture did.
type Outcome struct {
	Kind     OutcomeKind
	ActiveID string
	From     string
	To       string
}

// Gesture is one pointer/keyboard sample from the host's drag abstraction.
type Gesture struct {
	Pointer    *Point
	ActiveRect Rect
	Droppables []Droppable
}

type session struct {
	active     NodeData
	depth      int
	startPhase string
	phase      string // current phase; differs from startPhase after a cross-phase hover
	over       *Collision
}

// Engine is a single-gesture drag controller. It is not safe for concurrent
// use; the host drives it from its event loop.
type Engine struct {
	host     Host
	detect   Detector
	preview  PreviewMode
	filtered bool
	drag     *session
	working  map[string][]*domain.Item
}

// Option configures an Engine.
type Option func(*Engine)

// WithDetector replaces the collision detector.
func WithDetector(d Detector) Option {
	return func(e *Engine) { e.detect = d }
}

// WithWorkingCopy enables cancellable cross-phase previews.
func WithWorkingCopy() Option {
	return func(e *Engine) { e.preview = PreviewWorkingCopy }
}

// New creates an idle engine bound to host.
func New(host Host, opts ...Option) *Engine {
	e := &Engine{host: host, detect: DefaultDetector}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State reports whether a gesture is in progress.
func (e *Engine) State() State {
	if e.drag != nil {
		return StateDragging
	}
	return StateIdle
}

// Active returns the node being dragged.
func (e *Engine) Active() (NodeData, bool) {
	if e.drag == nil {
		return NodeData{}, false
	}
	return e.drag.active, true
}

// Hover returns the last resolved drop target of the current gesture.
func (e *Engine) Hover() *Collision {
	if e.drag == nil {
		return nil
	}
	return e.drag.over
}

// FilterActive reports whether reordering is locked by a board filter.
func (e *Engine) FilterActive() bool {
	return e.filtered
}

// SetFilterActive locks or unlocks reordering. A filtered view's indexes do
// not match the full lists, so every handler short-circuits while it is on.
// Turning it on cancels a gesture in progress.
func (e *Engine) SetFilterActive(on bool) {
	e.filtered = on
	if on && e.drag != nil {
		e.Cancel()
	}
}

// Start begins a gesture. It returns false when the engine is busy, the
// board is filtered or the node cannot be found.
func (e *Engine) Start(active NodeData) bool {
	if e.filtered || e.drag != nil {
		return false
	}
	s := &session{active: active}
	switch active.Type {
	case NodePhase:
		if indexOfKey(e.host.PhaseOrder(), active.ID) < 0 {
			return false
		}
	case NodeItem:
		phase, loc, ok := e.locate(active.ID)
		if !ok {
			return false
		}
		s.depth = loc.Depth
		s.startPhase = phase
		s.phase = phase
	default:
		return false
	}
	e.drag = s
	return true
}

// Over resolves the drop target for a pointer sample. A root item hovering
// another phase is moved there immediately; subtasks never change phase.
func (e *Engine) Over(g Gesture) *Collision {
	s := e.drag
	if s == nil || e.filtered {
		return nil
	}
	hits := e.detect(e.input(g))
	if len(hits) == 0 {
		s.over = nil
		return nil
	}
	over := hits[0]
	s.over = &over

	if s.active.Type == NodeItem && s.depth == 0 {
		if target := e.targetPhase(over); target != "" && target != s.phase {
			e.moveAcross(s, target, over)
		}
	}
	return &over
}

// End drops the dragged node and commits the resulting order. A gesture
// without droppables reuses the last hover target.
func (e *Engine) End(g Gesture) Outcome {
	s := e.drag
	if s == nil {
		return Outcome{Kind: OutcomeNone}
	}
	defer e.reset()
	if e.filtered {
		return Outcome{Kind: OutcomeNone, ActiveID: s.active.ID}
	}

	over := s.over
	if len(g.Droppables) > 0 {
		over = nil
		if hits := e.detect(e.input(g)); len(hits) > 0 {
			over = &hits[0]
		}
	}

	if s.active.Type == NodePhase {
		return e.endPhase(s, over)
	}
	return e.endItem(s, over)
}

// Cancel aborts the gesture. In live preview mode a cross-phase move that
// already happened during the hover stays applied.
func (e *Engine) Cancel() Outcome {
	if e.drag == nil {
		return Outcome{Kind: OutcomeNone}
	}
	id := e.drag.active.ID
	e.reset()
	return Outcome{Kind: OutcomeCancelled, ActiveID: id}
}

// ReorderItems moves the root item at from to index to inside one phase.
func (e *Engine) ReorderItems(phase string, from, to int) bool {
	if e.filtered || e.drag != nil {
		return false
	}
	items := e.host.PhaseItems(phase)
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) || from == to {
		return false
	}
	e.host.ReorderItems(phase, moveItem(items, from, to))
	return true
}

// ReorderPhases moves phase from to the position held by phase to.
func (e *Engine) ReorderPhases(from, to string) bool {
	if e.filtered || e.drag != nil || from == to {
		return false
	}
	order := e.host.PhaseOrder()
	if indexOfKey(order, from) < 0 || indexOfKey(order, to) < 0 {
		return false
	}
	e.host.ReorderPhases(from, to)
	return true
}

// Shift moves an item delta places among its siblings, at any depth.
func (e *Engine) Shift(id string, delta int) bool {
	if e.filtered || e.drag != nil || delta == 0 {
		return false
	}
	phase, loc, ok := e.locate(id)
	if !ok {
		return false
	}
	roots := e.host.PhaseItems(phase)
	siblings := siblingsOf(roots, loc)
	to := loc.Index + delta
	if to < 0 || to >= len(siblings) {
		return false
	}
	e.host.ReorderItems(phase, withSiblings(roots, loc, moveItem(siblings, loc.Index, to)))
	return true
}

// TransferItem moves a root item to index in another phase (index < 0 or
// past the end appends). Subtasks are refused.
func (e *Engine) TransferItem(id, target string, index int) bool {
	if e.filtered || e.drag != nil {
		return false
	}
	phase, loc, ok := e.locate(id)
	if !ok || loc.Depth > 0 || indexOfKey(e.host.PhaseOrder(), target) < 0 {
		return false
	}
	if phase == target {
		if index < 0 || index >= len(e.host.PhaseItems(phase)) {
			index = len(e.host.PhaseItems(phase)) - 1
		}
		return e.ReorderItems(phase, loc.Index, index)
	}
	src := e.host.PhaseItems(phase)
	dst := e.host.PhaseItems(target)
	if index < 0 || index > len(dst) {
		index = len(dst)
	}
	e.host.MoveItem(id, phase, target, removeItem(src, loc.Index), insertItem(dst, index, loc.Item))
	return true
}

func (e *Engine) endPhase(s *session, over *Collision) Outcome {
	if over == nil || over.Node.Type != NodePhase || over.Node.ID == s.active.ID {
		return Outcome{Kind: OutcomeNone, ActiveID: s.active.ID}
	}
	e.host.ReorderPhases(s.active.ID, over.Node.ID)
	return Outcome{Kind: OutcomePhasesReordered, ActiveID: s.active.ID, From: s.active.ID, To: over.Node.ID}
}

func (e *Engine) endItem(s *session, over *Collision) Outcome {
	none := Outcome{Kind: OutcomeNone, ActiveID: s.active.ID}
	if s.phase != s.startPhase {
		if e.preview == PreviewWorkingCopy {
			e.host.MoveItem(s.active.ID, s.startPhase, s.phase, e.working[s.startPhase], e.working[s.phase])
		}
		return Outcome{Kind: OutcomeItemMoved, ActiveID: s.active.ID, From: s.startPhase, To: s.phase}
	}
	if over == nil || over.Node.ID == s.active.ID {
		return none
	}

	roots := e.items(s.phase)
	loc, ok := domain.LocateIn(roots, s.active.ID)
	if !ok {
		return none
	}
	siblings := siblingsOf(roots, loc)
	to := domain.IndexOf(siblings, over.Node.ID)
	if to < 0 && loc.Depth == 0 && over.Node.Type == NodeItem {
		// Hovering a subtask of another root: drop at that root's slot.
		if ol, ok := domain.LocateIn(roots, over.Node.ID); ok {
			to = domain.IndexOf(roots, ol.Root.ID)
		}
	}
	if to < 0 || to == loc.Index {
		return none
	}
	e.host.ReorderItems(s.phase, withSiblings(roots, loc, moveItem(siblings, loc.Index, to)))
	return Outcome{Kind: OutcomeItemsReordered, ActiveID: s.active.ID, From: s.phase, To: s.phase}
}

func (e *Engine) moveAcross(s *session, target string, over Collision) {
	src := e.items(s.phase)
	idx := domain.IndexOf(src, s.active.ID)
	if idx < 0 {
		return
	}
	moving := src[idx]
	dst := e.items(target)
	at := len(dst)
	if over.Node.Type == NodeItem {
		if loc, ok := domain.LocateIn(dst, over.Node.ID); ok {
			at = domain.IndexOf(dst, loc.Root.ID)
		}
	}
	newSrc := removeItem(src, idx)
	newDst := insertItem(dst, at, moving)

	if e.preview == PreviewWorkingCopy {
		if e.working == nil {
			e.working = make(map[string][]*domain.Item)
		}
		e.working[s.phase] = newSrc
		e.working[target] = newDst
	} else {
		e.host.MoveItem(moving.ID, s.phase, target, newSrc, newDst)
	}
	s.phase = target
}

func (e *Engine) targetPhase(over Collision) string {
	var phase string
	switch over.Node.Type {
	case NodePhase:
		phase = over.Node.ID
	case NodeItem:
		phase = over.Node.Container
		if phase == "" {
			phase, _, _ = e.locate(over.Node.ID)
		}
	}
	if indexOfKey(e.host.PhaseOrder(), phase) < 0 {
		return ""
	}
	return phase
}

// items reads a phase through the working copy when one is active.
func (e *Engine) items(phase string) []*domain.Item {
	if list, ok := e.working[phase]; ok {
		return list
	}
	return e.host.PhaseItems(phase)
}

func (e *Engine) locate(id string) (string, domain.Location, bool) {
	for _, phase := range e.host.PhaseOrder() {
		if loc, ok := domain.LocateIn(e.items(phase), id); ok {
			loc.Phase = phase
			return phase, loc, true
		}
	}
	return "", domain.Location{}, false
}

func (e *Engine) input(g Gesture) CollisionInput {
	return CollisionInput{
		Active:     e.drag.active,
		ActiveRect: g.ActiveRect,
		Pointer:    g.Pointer,
		Droppables: g.Droppables,
	}
}

func (e *Engine) reset() {
	e.drag = nil
	e.working = nil
}
