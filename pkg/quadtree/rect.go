package quadtree

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/geometry"
)

// Quadrant identifies one of the four children of a node. The order is also
// the order of the child slots returned by NodeChildren.
type Quadrant int

const (
	TopLeft Quadrant = iota
	TopRight
	BottomLeft
	BottomRight
)

func (q Quadrant) String() string {
	switch q {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	default:
		return fmt.Sprintf("quadrant(%d)", int(q))
	}
}

// Rect is an axis-aligned rectangle given by its top-left corner and its
// dimensions. Y grows downwards, as on screen.
type Rect struct {
	TopLeft geometry.Vector2D
	Dims    geometry.Vector2D
}

// NewRect builds a Rect from its top-left corner and dimensions.
func NewRect(topLeft, dims geometry.Vector2D) Rect {
	return Rect{TopLeft: topLeft, Dims: dims}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%s - %s]", r.TopLeft, r.BottomRight())
}

// BottomRight is the corner opposite to TopLeft.
func (r Rect) BottomRight() geometry.Vector2D {
	return r.TopLeft.Add(r.Dims)
}

// Mid is the center of the rectangle.
func (r Rect) Mid() geometry.Vector2D {
	return r.TopLeft.Add(r.Dims.Half())
}

// Contains reports whether p lies in r. All four sides are inclusive.
func (r Rect) Contains(p geometry.Vector2D) bool {
	br := r.BottomRight()
	return r.TopLeft.X <= p.X && p.X <= br.X &&
		r.TopLeft.Y <= p.Y && p.Y <= br.Y
}

// Intersects reports whether r and other share at least one point. Overlap,
// containment in either direction and touching edges all count.
func (r Rect) Intersects(other Rect) bool {
	br, obr := r.BottomRight(), other.BottomRight()
	return r.TopLeft.X <= obr.X && other.TopLeft.X <= br.X &&
		r.TopLeft.Y <= obr.Y && other.TopLeft.Y <= br.Y
}

// IntersectsCircle reports whether the disc of the given center and radius
// touches r: the center is clamped onto r per axis and the clamped point must
// be within radius of the center.
func (r Rect) IntersectsCircle(center geometry.Vector2D, radius float64) bool {
	closest := center.Clamp(r.TopLeft, r.BottomRight())
	return closest.DistanceSquaredTo(center) <= radius*radius
}

// QuadrantOf returns the quadrant of r that p falls into. Points on the
// midpoint lines go to the top and to the left.
func (r Rect) QuadrantOf(p geometry.Vector2D) Quadrant {
	mid := r.Mid()
	q := TopLeft
	if p.X > mid.X {
		q |= TopRight
	}
	if p.Y > mid.Y {
		q |= BottomLeft
	}
	return q
}

// Quadrant returns the sub-rectangle of r covered by quadrant q. The four
// quadrants tile r and each has half its width and half its height.
func (r Rect) Quadrant(q Quadrant) Rect {
	half := r.Dims.Half()
	switch q {
	case TopRight:
		return Rect{TopLeft: r.TopLeft.Add(half.KeepX()), Dims: half}
	case BottomLeft:
		return Rect{TopLeft: r.TopLeft.Add(half.KeepY()), Dims: half}
	case BottomRight:
		return Rect{TopLeft: r.TopLeft.Add(half), Dims: half}
	default:
		return Rect{TopLeft: r.TopLeft, Dims: half}
	}
}
