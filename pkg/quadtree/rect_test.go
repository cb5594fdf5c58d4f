package quadtree

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/geometry"
	"github.com/stretchr/testify/require"
)

func v(x, y float64) geometry.Vector2D {
	return geometry.Vector2D{X: x, Y: y}
}

func TestRectContains(t *testing.T) {
	r := NewRect(v(0, 0), v(5, 5))
	tests := []struct {
		name string
		p    geometry.Vector2D
		want bool
	}{
		{"inside", v(1, 2), true},
		{"top left corner", v(0, 0), true},
		{"bottom right corner", v(5, 5), true},
		{"on right edge", v(5, 2.5), true},
		{"left of", v(-0.001, 2), false},
		{"below", v(2, 5.001), false},
		{"far away", v(101, 4), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, r.Contains(tt.p))
		})
	}

	square := NewRect(v(5, 3), v(8.3, 8.3))
	require.True(t, square.Contains(v(5, 6)))
}

func TestRectIntersects(t *testing.T) {
	a := NewRect(v(0, 0), v(10, 10))
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlapping corner", NewRect(v(8, 8), v(5, 5)), true},
		{"contains other", NewRect(v(2, 2), v(1, 1)), true},
		{"contained by other", NewRect(v(-5, -5), v(30, 30)), true},
		{"cross shape", NewRect(v(4, -5), v(2, 20)), true},
		{"touching edge", NewRect(v(10, 0), v(3, 3)), true},
		{"touching corner", NewRect(v(10, 10), v(3, 3)), true},
		{"disjoint right", NewRect(v(10.5, 0), v(3, 3)), false},
		{"disjoint above", NewRect(v(0, -4), v(3, 3)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, a.Intersects(tt.other))
			require.Equal(t, tt.want, tt.other.Intersects(a), "intersection must be symmetric")
		})
	}
}

func TestRectIntersectsCircle(t *testing.T) {
	r := NewRect(v(0, 0), v(10, 10))
	tests := []struct {
		name   string
		center geometry.Vector2D
		radius float64
		want   bool
	}{
		{"center inside", v(5, 5), 1, true},
		{"circle covers rect", v(5, 5), 100, true},
		{"reaches left edge", v(-2, 5), 2, true},
		{"short of left edge", v(-2, 5), 1.9, false},
		{"reaches corner", v(13, 14), 5, true},
		{"misses corner", v(13, 14), 4.9, false},
		{"inside bounding square only", v(12, 12), 2.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, r.IntersectsCircle(tt.center, tt.radius))
		})
	}
}

func TestRectQuadrants(t *testing.T) {
	r := NewRect(v(0, 0), v(10, 10))

	require.Equal(t, TopLeft, r.QuadrantOf(v(5, 5)), "midpoint goes top left")
	require.Equal(t, TopLeft, r.QuadrantOf(v(3.9, 4.5)))
	require.Equal(t, TopRight, r.QuadrantOf(v(7.7, 2.5)))
	require.Equal(t, TopRight, r.QuadrantOf(v(5.0001, 5)))
	require.Equal(t, BottomLeft, r.QuadrantOf(v(0.9, 9.6)))
	require.Equal(t, BottomLeft, r.QuadrantOf(v(5, 5.0001)))
	require.Equal(t, BottomRight, r.QuadrantOf(v(9.4, 6.1)))

	require.Equal(t, NewRect(v(0, 0), v(5, 5)), r.Quadrant(TopLeft))
	require.Equal(t, NewRect(v(5, 0), v(5, 5)), r.Quadrant(TopRight))
	require.Equal(t, NewRect(v(0, 5), v(5, 5)), r.Quadrant(BottomLeft))
	require.Equal(t, NewRect(v(5, 5), v(5, 5)), r.Quadrant(BottomRight))

	offset := NewRect(v(-4, 2), v(8, 6))
	require.Equal(t, NewRect(v(0, 5), v(4, 3)), offset.Quadrant(BottomRight))
	require.Equal(t, v(0, 5), offset.Mid())
	require.Equal(t, "bottom-left", BottomLeft.String())
}
