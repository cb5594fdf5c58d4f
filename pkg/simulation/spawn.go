package simulation

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/geometry"
)

// Spawn adds n boids at random positions away from the margins, each with a
// random heading and a speed within the limits of the world settings. It
// returns how many of them were indexed.
func Spawn(w *World, n int, rng *rand.Rand) int {
	s := w.Settings()

	lo := w.Origin()
	size := s.Dims
	if 2*s.Margin < min(size.X, size.Y) {
		lo = lo.Add(geometry.Splat(s.Margin))
		size = size.Sub(geometry.Splat(2 * s.Margin))
	}

	indexed := 0
	for range n {
		pos := geometry.Vector2D{
			X: lo.X + rng.Float64()*size.X,
			Y: lo.Y + rng.Float64()*size.Y,
		}
		vel := geometry.Vector2D{
			X: (rng.Float64() - 0.5) * 2,
			Y: (rng.Float64() - 0.5) * 2,
		}.ClampLength(s.MinSpeed, s.MaxSpeed)

		if w.AddBoid(pos, vel) {
			indexed++
		}
	}
	return indexed
}

// NewRand returns the generator used to spawn a flock. A zero seed picks a
// random one.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
