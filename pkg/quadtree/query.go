package quadtree

import (
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/geometry"
)

// QueryRect returns every item whose position lies in the rectangle
// (inclusive). Items come out node by node in breadth-first order.
func (qt *QuadTree[T]) QueryRect(topLeft, dims geometry.Vector2D) []T {
	return qt.AppendRect(nil, topLeft, dims)
}

// AppendRect is QueryRect appending to dst.
func (qt *QuadTree[T]) AppendRect(dst []T, topLeft, dims geometry.Vector2D) []T {
	area := Rect{TopLeft: topLeft, Dims: dims}
	return qt.search(dst, area.Intersects, area.Contains)
}

// QueryCircle returns every item within radius of center (inclusive).
// Children are pruned with an exact circle/rectangle test.
func (qt *QuadTree[T]) QueryCircle(center geometry.Vector2D, radius float64) []T {
	return qt.AppendCircle(nil, center, radius)
}

// AppendCircle is QueryCircle appending to dst, so a caller running many
// queries can reuse one buffer.
func (qt *QuadTree[T]) AppendCircle(dst []T, center geometry.Vector2D, radius float64) []T {
	radiusSq := radius * radius
	return qt.search(dst,
		func(r Rect) bool { return r.IntersectsCircle(center, radius) },
		func(p geometry.Vector2D) bool { return p.DistanceSquaredTo(center) <= radiusSq },
	)
}

// QueryCircleBoundingSquare answers the same question as QueryCircle by
// querying the square of side 2*radius around center and filtering by
// distance. It visits more nodes than QueryCircle.
func (qt *QuadTree[T]) QueryCircleBoundingSquare(center geometry.Vector2D, radius float64) []T {
	corner := center.Sub(geometry.Splat(radius))
	inSquare := qt.QueryRect(corner, geometry.Splat(2*radius))

	radiusSq := radius * radius
	ret := inSquare[:0]
	for _, item := range inSquare {
		if item.Pos().DistanceSquaredTo(center) <= radiusSq {
			ret = append(ret, item)
		}
	}
	return ret
}

// QueryRectBruteForce scans every item of the tree. It exists to check the
// pruned queries.
func (qt *QuadTree[T]) QueryRectBruteForce(topLeft, dims geometry.Vector2D) []T {
	area := Rect{TopLeft: topLeft, Dims: dims}
	return qt.scan(area.Contains)
}

// QueryCircleBruteForce scans every item of the tree.
func (qt *QuadTree[T]) QueryCircleBruteForce(center geometry.Vector2D, radius float64) []T {
	radiusSq := radius * radius
	return qt.scan(func(p geometry.Vector2D) bool {
		return p.DistanceSquaredTo(center) <= radiusSq
	})
}

// search walks the tree breadth first from the root. Items of every visited
// node are kept when keep accepts their position; a child is visited only when
// visit accepts its rectangle.
func (qt *QuadTree[T]) search(dst []T, visit func(Rect) bool, keep func(geometry.Vector2D) bool) []T {
	queue := make([]NodeIndex, 1, 16)
	queue[0] = Root
	for head := 0; head < len(queue); head++ {
		n := &qt.nodes[queue[head]]
		for _, item := range n.items {
			if keep(item.Pos()) {
				dst = append(dst, item)
			}
		}
		for _, child := range n.children {
			if child == NoNode {
				continue
			}
			if visit(qt.nodes[child].rect) {
				queue = append(queue, child)
			}
		}
	}
	return dst
}

func (qt *QuadTree[T]) scan(keep func(geometry.Vector2D) bool) []T {
	var ret []T
	for i := range qt.nodes {
		for _, item := range qt.nodes[i].items {
			if keep(item.Pos()) {
				ret = append(ret, item)
			}
		}
	}
	return ret
}
