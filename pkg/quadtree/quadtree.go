// Package quadtree implements a bounded point quadtree stored in a flat,
// append-only node arena.
//
// Each node covers a rectangle and holds up to MaxPoints items directly. When
// a full node receives another item, the item is pushed down into the child
// covering its quadrant; the child is created on first use. Child links are
// indexes into the arena, NoNode when the quadrant was never needed.
//
// The tree supports no removal or relocation: callers rebuild it with Reset
// followed by a series of Insert calls. Queries only read the arena and may
// run concurrently with each other, but not with Insert or Reset.
package quadtree

import (
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/geometry"
)

// MaxPoints is the number of items a node holds before pushing new items down
// into its children.
const MaxPoints = 4

// Positioned is anything that can be located in the plane.
type Positioned interface {
	Pos() geometry.Vector2D
}

// NodeIndex is the position of a node in the arena.
type NodeIndex int

const (
	// Root is the arena slot of the root node. It never appears as a child.
	Root NodeIndex = 0
	// NoNode marks an unpopulated child slot.
	NoNode NodeIndex = -1
)

type node[T Positioned] struct {
	rect     Rect
	items    []T
	children [4]NodeIndex
}

// QuadTree indexes items of type T by their position.
type QuadTree[T Positioned] struct {
	bounds    Rect
	nodes     []node[T]
	maxPoints int
	numItems  int
}

// New returns an empty tree covering the rectangle starting at topLeft with
// the given dimensions.
func New[T Positioned](topLeft, dims geometry.Vector2D) *QuadTree[T] {
	qt := &QuadTree[T]{maxPoints: MaxPoints}
	qt.Reset(topLeft, dims)
	return qt
}

// Len is the number of items inserted since the last reset.
func (qt *QuadTree[T]) Len() int {
	return qt.numItems
}

// MaxPoints is the per-node capacity.
func (qt *QuadTree[T]) MaxPoints() int {
	return qt.maxPoints
}

// Bounds is the rectangle covered by the root.
func (qt *QuadTree[T]) Bounds() Rect {
	return qt.bounds
}

// Reset drops every node and item and starts over with a single empty root
// covering the new rectangle. It is both "clear" and "resize".
func (qt *QuadTree[T]) Reset(topLeft, dims geometry.Vector2D) {
	qt.bounds = Rect{TopLeft: topLeft, Dims: dims}
	// keep the arena capacity, it gets refilled at the same size every tick
	qt.nodes = qt.nodes[:0]
	qt.numItems = 0
	qt.appendNode(qt.bounds)
}

// Clear empties the tree and keeps its bounds.
func (qt *QuadTree[T]) Clear() {
	qt.Reset(qt.bounds.TopLeft, qt.bounds.Dims)
}

// Insert adds item to the tree. It returns false, leaving the tree untouched,
// when the item's position is outside the bounds.
//
// Many items at the exact same position keep splitting the same quadrant and
// never terminate; callers are expected not to do that.
func (qt *QuadTree[T]) Insert(item T) bool {
	p := item.Pos()
	if !qt.bounds.Contains(p) {
		return false
	}

	cur := Root
	for {
		n := &qt.nodes[cur]
		if len(n.items) < qt.maxPoints {
			n.items = append(n.items, item)
			qt.numItems++
			return true
		}

		q := n.rect.QuadrantOf(p)
		next := n.children[q]
		if next == NoNode {
			rect := n.rect.Quadrant(q)
			next = NodeIndex(len(qt.nodes))
			// n is not valid anymore once appendNode grows the arena
			n.children[q] = next
			qt.appendNode(rect)
		}
		cur = next
	}
}

// appendNode adds an empty node at the end of the arena, recycling the item
// storage of a previously discarded node when there is one.
func (qt *QuadTree[T]) appendNode(rect Rect) NodeIndex {
	idx := len(qt.nodes)
	if idx < cap(qt.nodes) {
		qt.nodes = qt.nodes[:idx+1]
		n := &qt.nodes[idx]
		clear(n.items)
		n.items = n.items[:0]
		n.rect = rect
		n.children = [4]NodeIndex{NoNode, NoNode, NoNode, NoNode}
	} else {
		qt.nodes = append(qt.nodes, node[T]{
			rect:     rect,
			items:    make([]T, 0, qt.maxPoints),
			children: [4]NodeIndex{NoNode, NoNode, NoNode, NoNode},
		})
	}
	return NodeIndex(idx)
}
