// Package behavior holds the local steering rules of a flock.
//
// Boids is an artificial life program developed by Craig Reynolds in 1986
// which simulates the flocking of birds. Each boid only reacts to the boids it
// can see: it steers away from those that are too near (separation), matches
// the heading of its visible neighbours (alignment) and moves towards their
// centre (cohesion). https://en.wikipedia.org/wiki/Boids
//
// The functions here are pure: they receive a boid and the neighbours found
// around it and return a velocity change. Finding the neighbours is the job of
// the caller's spatial index.
package behavior

import (
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/geometry"
)

// Boid is a single member of the flock.
type Boid struct {
	Pos geometry.Vector2D `json:"pos"`
	Vel geometry.Vector2D `json:"vel"`
}

// New creates a boid.
func New(pos, vel geometry.Vector2D) Boid {
	return Boid{Pos: pos, Vel: vel}
}

// Speed is the length of the boid velocity.
func (b Boid) Speed() float64 {
	return b.Vel.Len()
}

// Settings controls the physics constants of the flock. They can change
// between two ticks.
type Settings struct {
	Dims geometry.Vector2D // size of the area the boids are kept in

	VisibleRange float64 // how far a boid sees, for alignment and cohesion
	ProtectRange float64 // personal space radius, for separation

	AvoidFactor    float64 // separation strength
	AlignFactor    float64 // alignment strength
	CohesionFactor float64 // cohesion strength

	Margin     float64 // distance to the edges where boids start turning back
	TurnFactor float64 // edge turning strength

	MaxSpeed float64
	MinSpeed float64
}

// Neighbor is what a boid knows about another boid found by a range query.
// Index identifies the other boid, so a boid can skip itself even when
// another boid shares its exact position.
type Neighbor struct {
	Index int
	Boid  Boid
}

// Pos makes a Neighbor storable in a spatial index.
func (n Neighbor) Pos() geometry.Vector2D {
	return n.Boid.Pos
}

// Separation pushes the boid away from the neighbours in its protected range:
// the sum of the displacements from each of them, scaled by AvoidFactor.
func Separation(self int, me Boid, near []Neighbor, s Settings) geometry.Vector2D {
	var push geometry.Vector2D
	for _, other := range near {
		if other.Index == self {
			continue
		}
		push = push.Add(me.Pos.Sub(other.Boid.Pos))
	}
	return push.Mul(s.AvoidFactor)
}

// Alignment steers the boid towards the average velocity of its visible
// neighbours. It is zero when the boid sees nobody but itself.
func Alignment(self int, me Boid, visible []Neighbor, s Settings) geometry.Vector2D {
	var sum geometry.Vector2D
	count := 0
	for _, other := range visible {
		if other.Index == self {
			continue
		}
		sum = sum.Add(other.Boid.Vel)
		count++
	}
	if count == 0 {
		return geometry.Vector2D{}
	}
	avg := sum.Mul(1 / float64(count))
	return avg.Sub(me.Vel).Mul(s.AlignFactor)
}

// Cohesion steers the boid towards the average position of its visible
// neighbours. It is zero when the boid sees nobody but itself.
func Cohesion(self int, me Boid, visible []Neighbor, s Settings) geometry.Vector2D {
	var sum geometry.Vector2D
	count := 0
	for _, other := range visible {
		if other.Index == self {
			continue
		}
		sum = sum.Add(other.Boid.Pos)
		count++
	}
	if count == 0 {
		return geometry.Vector2D{}
	}
	avg := sum.Mul(1 / float64(count))
	return avg.Sub(me.Pos).Mul(s.CohesionFactor)
}

// Margins turns the boid back when it gets within Margin of an edge of the
// area [origin, origin+Dims]. Each axis is handled on its own.
func Margins(me Boid, origin geometry.Vector2D, s Settings) geometry.Vector2D {
	rel := me.Pos.Sub(origin)
	return geometry.Vector2D{
		X: edgeTurn(rel.X, s.Dims.X, s.Margin, s.TurnFactor),
		Y: edgeTurn(rel.Y, s.Dims.Y, s.Margin, s.TurnFactor),
	}
}

func edgeTurn(p, size, margin, turn float64) float64 {
	switch {
	case p < margin:
		return turn
	case p > size-margin:
		return -turn
	default:
		return 0
	}
}

// LimitVelocity keeps the speed within [MinSpeed, MaxSpeed]. A boid at rest
// is launched along +X at MinSpeed.
func LimitVelocity(vel geometry.Vector2D, s Settings) geometry.Vector2D {
	return vel.ClampLength(s.MinSpeed, s.MaxSpeed)
}

// Steer combines every rule into the boid's next state: velocity is updated
// by the four steering terms, limited, then applied to the position once
// (unit time step).
func Steer(self int, me Boid, near, visible []Neighbor, origin geometry.Vector2D, s Settings) Boid {
	vel := me.Vel.
		Add(Separation(self, me, near, s)).
		Add(Alignment(self, me, visible, s)).
		Add(Cohesion(self, me, visible, s)).
		Add(Margins(me, origin, s))
	vel = LimitVelocity(vel, s)

	return Boid{Pos: me.Pos.Add(vel), Vel: vel}
}
