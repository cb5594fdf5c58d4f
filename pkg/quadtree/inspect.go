package quadtree

import (
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/geometry"
)

// Read-only introspection, mostly for drawing the partition. Every accessor
// reports false instead of panicking when given an index it never handed out.

// Stats summarizes the shape of the tree.
type Stats struct {
	Items  int
	Nodes  int
	Leaves int
	Depth  int
}

// NodeCount is the number of nodes in the arena, root included.
func (qt *QuadTree[T]) NodeCount() int {
	return len(qt.nodes)
}

func (qt *QuadTree[T]) node(idx NodeIndex) (*node[T], bool) {
	if idx < 0 || int(idx) >= len(qt.nodes) {
		return nil, false
	}
	return &qt.nodes[idx], true
}

// NodeLen is the number of items held directly by a node.
func (qt *QuadTree[T]) NodeLen(idx NodeIndex) (int, bool) {
	n, ok := qt.node(idx)
	if !ok {
		return 0, false
	}
	return len(n.items), true
}

// NodeItemPos is the position of the item-th item held by a node.
func (qt *QuadTree[T]) NodeItemPos(idx NodeIndex, item int) (geometry.Vector2D, bool) {
	n, ok := qt.node(idx)
	if !ok || item < 0 || item >= len(n.items) {
		return geometry.Vector2D{}, false
	}
	return n.items[item].Pos(), true
}

// NodeItems returns a copy of the items held directly by a node.
func (qt *QuadTree[T]) NodeItems(idx NodeIndex) ([]T, bool) {
	n, ok := qt.node(idx)
	if !ok {
		return nil, false
	}
	return append([]T(nil), n.items...), true
}

// NodeChildren returns the child slots of a node in Quadrant order, NoNode
// for the quadrants that were never populated.
func (qt *QuadTree[T]) NodeChildren(idx NodeIndex) ([4]NodeIndex, bool) {
	n, ok := qt.node(idx)
	if !ok {
		return [4]NodeIndex{NoNode, NoNode, NoNode, NoNode}, false
	}
	return n.children, true
}

// NodeRect is the rectangle covered by a node.
func (qt *QuadTree[T]) NodeRect(idx NodeIndex) (Rect, bool) {
	n, ok := qt.node(idx)
	if !ok {
		return Rect{}, false
	}
	return n.rect, true
}

// Walk calls fn for every node, parents before children, with the node depth
// (0 for the root). The items slice belongs to the tree and must not be kept.
// Walking stops when fn returns false.
func (qt *QuadTree[T]) Walk(fn func(idx NodeIndex, rect Rect, items []T, depth int) bool) {
	type entry struct {
		idx   NodeIndex
		depth int
	}
	queue := []entry{{idx: Root}}
	for head := 0; head < len(queue); head++ {
		e := queue[head]
		n := &qt.nodes[e.idx]
		if !fn(e.idx, n.rect, n.items, e.depth) {
			return
		}
		for _, child := range n.children {
			if child != NoNode {
				queue = append(queue, entry{idx: child, depth: e.depth + 1})
			}
		}
	}
}

// Stats walks the tree once and reports its shape.
func (qt *QuadTree[T]) Stats() Stats {
	s := Stats{Items: qt.numItems, Nodes: len(qt.nodes)}
	qt.Walk(func(idx NodeIndex, _ Rect, _ []T, depth int) bool {
		if depth > s.Depth {
			s.Depth = depth
		}
		if qt.nodes[idx].children == [4]NodeIndex{NoNode, NoNode, NoNode, NoNode} {
			s.Leaves++
		}
		return true
	})
	return s
}

// Depth is the deepest level reached by the subdivision, 0 for a lone root.
func (qt *QuadTree[T]) Depth() int {
	return qt.Stats().Depth
}
