package reorder

import (
	"math"
	"sort"
)

// NodeType tags what a draggable or droppable represents.
type NodeType string

const (
	NodePhase NodeType = "phase"
	NodeItem  NodeType = "item"
)

// NodeData is the metadata the host attaches to every draggable/droppable.
// Container is the owning phase key for items and the phase key itself for phases.
type NodeData struct {
	ID        string
	Type      NodeType
	Container string
	Depth     int
}

// Point is a pointer position in host coordinates.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned box in host coordinates.
type Rect struct {
	Left, Top, Width, Height float64
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }
func (r Rect) Area() float64   { return r.Width * r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Contains reports whether p lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right() && p.Y >= r.Top && p.Y < r.Bottom()
}

// IntersectionArea returns the overlapping area of r and o.
func (r Rect) IntersectionArea(o Rect) float64 {
	w := math.Min(r.Right(), o.Right()) - math.Max(r.Left, o.Left)
	h := math.Min(r.Bottom(), o.Bottom()) - math.Max(r.Top, o.Top)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Droppable is a candidate drop target with its measured rectangle.
type Droppable struct {
	Node NodeData
	Rect Rect
}

// Collision is a ranked drop target. Lower Value ranks first for distance
// based strategies; strategies return collisions already sorted.
type Collision struct {
	Node  NodeData
	Value float64
}

// CollisionInput is everything a strategy may look at.
type CollisionInput struct {
	Active     NodeData
	ActiveRect Rect
	Pointer    *Point
	Droppables []Droppable
}

// Strategy is a pure collision test returning ranked hits, best first.
type Strategy func(in CollisionInput) []Collision

// Policy is an ordered list of strategies; the first non-empty result wins.
type Policy []Strategy

// Detect runs the strategies in order and short-circuits on the first hit list.
func (p Policy) Detect(in CollisionInput) []Collision {
	for _, s := range p {
		if hits := s(in); len(hits) > 0 {
			return hits
		}
	}
	return nil
}

// PointerWithin returns droppables containing the pointer, innermost
// (smallest area) first so item rows beat the phase container they sit in.
func PointerWithin(in CollisionInput) []Collision {
	if in.Pointer == nil {
		return nil
	}
	var hits []Collision
	for _, d := range in.Droppables {
		if d.Rect.Contains(*in.Pointer) {
			hits = append(hits, Collision{Node: d.Node, Value: d.Rect.Area()})
		}
	}
	sortAscending(hits)
	return hits
}

// RectIntersection ranks droppables by how much they overlap the dragged
// rectangle, largest overlap ratio first.
func RectIntersection(in CollisionInput) []Collision {
	var hits []Collision
	activeArea := in.ActiveRect.Area()
	for _, d := range in.Droppables {
		inter := in.ActiveRect.IntersectionArea(d.Rect)
		if inter <= 0 {
			continue
		}
		ratio := inter / (activeArea + d.Rect.Area() - inter)
		// Stored negated so that sorting ascending puts the largest ratio first.
		hits = append(hits, Collision{Node: d.Node, Value: -ratio})
	}
	sortAscending(hits)
	return hits
}

// ClosestCenter ranks droppables by the distance from the pointer (or the
// dragged rectangle's center when there is no pointer) to their center.
func ClosestCenter(in CollisionInput) []Collision {
	origin := in.ActiveRect.Center()
	if in.Pointer != nil {
		origin = *in.Pointer
	}
	hits := make([]Collision, 0, len(in.Droppables))
	for _, d := range in.Droppables {
		hits = append(hits, Collision{Node: d.Node, Value: distance(origin, d.Rect.Center())})
	}
	sortAscending(hits)
	return hits
}

// OnlyType restricts a strategy to droppables of type t.
func OnlyType(t NodeType, s Strategy) Strategy {
	return func(in CollisionInput) []Collision {
		filtered := in
		filtered.Droppables = nil
		for _, d := range in.Droppables {
			if d.Node.Type == t {
				filtered.Droppables = append(filtered.Droppables, d)
			}
		}
		return s(filtered)
	}
}

// Detector picks drop targets for a gesture.
type Detector func(in CollisionInput) []Collision

var (
	phasePolicy = Policy{OnlyType(NodePhase, ClosestCenter)}
	itemPolicy  = Policy{PointerWithin, RectIntersection}
)

// DefaultDetector tiers detection by what is being dragged: phases only
// consider phase containers by closest center; items try pointer containment
// first and fall back to rectangle intersection, since phase containers and
// item rows overlap.
func DefaultDetector(in CollisionInput) []Collision {
	if in.Active.Type == NodePhase {
		return phasePolicy.Detect(in)
	}
	return itemPolicy.Detect(in)
}

func sortAscending(hits []Collision) {
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Value < hits[j].Value })
}
