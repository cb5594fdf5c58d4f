package geometry

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the tolerance used by Eq and by Normalize to detect a zero length.
const (
	Epsilon = 1e-9
)

// ErrDivideByZero is returned by Div when the scalar is zero.
var ErrDivideByZero = errors.New("vector cannot be divided by zero")

// Vector2D is a 2D point or displacement. It is a plain value: every method
// returns a new vector and never mutates the receiver.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// Splat returns a vector with both components set to v.
func Splat(v float64) Vector2D {
	return Vector2D{X: v, Y: v}
}

// String implements fmt.Stringer.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// Pos returns the vector itself, so a bare point can be stored in a spatial index.
func (v Vector2D) Pos() Vector2D {
	return v
}

// ---------------------------------------------------------------------
// Arithmetic
// ---------------------------------------------------------------------

// Add adds two vectors.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts other from v.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// Div scales the vector by 1/scalar. Dividing by zero yields an infinite
// vector together with ErrDivideByZero.
func (v Vector2D) Div(scalar float64) (Vector2D, error) {
	if scalar == 0 {
		return Vector2D{math.Inf(1), math.Inf(1)}, ErrDivideByZero
	}
	return Vector2D{v.X / scalar, v.Y / scalar}, nil
}

// Half returns v / 2.
func (v Vector2D) Half() Vector2D {
	return Vector2D{v.X / 2, v.Y / 2}
}

// KeepX returns the vector with Y set to zero.
func (v Vector2D) KeepX() Vector2D {
	return Vector2D{X: v.X}
}

// KeepY returns the vector with X set to zero.
func (v Vector2D) KeepY() Vector2D {
	return Vector2D{Y: v.Y}
}

// Dot calculates the dot product of two vectors.
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// ---------------------------------------------------------------------
// Magnitude
// ---------------------------------------------------------------------

// LenSqr is the squared length. Prefer it for comparisons.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len is the euclidean length.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns a unit vector in the same direction, or the zero vector
// when the length is below Epsilon.
func (v Vector2D) Normalize() Vector2D {
	l := v.Len()
	if l < Epsilon {
		return Vector2D{0, 0}
	}
	return v.Mul(1 / l)
}

// ClampLength rescales v so that its length lies in [min, max].
// A zero vector has no direction; when it must be raised to a positive
// minimum it points along +X.
func (v Vector2D) ClampLength(min, max float64) Vector2D {
	l := v.Len()
	switch {
	case l > max:
		return v.Mul(max / l)
	case l < min:
		if l == 0 {
			return Vector2D{X: min}
		}
		return v.Mul(min / l)
	default:
		return v
	}
}

// ---------------------------------------------------------------------
// Geometric utilities
// ---------------------------------------------------------------------

// DistanceTo calculates the euclidean distance to another point.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// DistanceSquaredTo calculates the squared euclidean distance to another point.
func (v Vector2D) DistanceSquaredTo(other Vector2D) float64 {
	return v.Sub(other).LenSqr()
}

// Angle returns the angle of the vector relative to the X axis, in [-Pi, Pi].
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Rotate rotates the vector by angle radians around the origin.
func (v Vector2D) Rotate(angle float64) Vector2D {
	cosTheta := math.Cos(angle)
	sinTheta := math.Sin(angle)
	return Vector2D{
		X: v.X*cosTheta - v.Y*sinTheta,
		Y: v.X*sinTheta + v.Y*cosTheta,
	}
}

// Clamp clamps each component of v into the box [lo, hi].
func (v Vector2D) Clamp(lo, hi Vector2D) Vector2D {
	return Vector2D{
		X: math.Max(lo.X, math.Min(v.X, hi.X)),
		Y: math.Max(lo.Y, math.Min(v.Y, hi.Y)),
	}
}

// Eq reports whether two vectors are equal within Epsilon.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}
