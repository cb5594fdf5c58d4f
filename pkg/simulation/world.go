package simulation

import (
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/quadtree"
	"golang.org/x/sync/errgroup"
)

// World owns the flock and the quadtree indexing it.
//
// The tree is rebuilt from scratch after every tick and stores a snapshot of
// each boid, so all the forces of one tick are computed from the same pre-tick
// state whatever order the boids are processed in. A World is not safe for
// concurrent use.
type World struct {
	settings behavior.Settings
	origin   geometry.Vector2D
	workers  int

	boids []behavior.Boid
	next  []behavior.Boid
	tree  *quadtree.QuadTree[behavior.Neighbor]

	indexed int
	ticks   uint64

	// query buffers, one pair per worker
	buffers []neighborBuffers
}

type neighborBuffers struct {
	near    []behavior.Neighbor
	visible []behavior.Neighbor
}

// Option customizes a World.
type Option func(*World)

// WithWorkers spreads the force computation of a tick over n goroutines.
// Values below 2 keep the tick sequential.
func WithWorkers(n int) Option {
	return func(w *World) {
		if n < 1 {
			n = 1
		}
		w.workers = n
	}
}

// WithBounds moves the top-left corner of the simulated area, which is the
// origin by default.
func WithBounds(topLeft geometry.Vector2D) Option {
	return func(w *World) {
		w.origin = topLeft
	}
}

// NewWorld creates an empty world covering settings.Dims.
func NewWorld(settings behavior.Settings, opts ...Option) *World {
	w := &World{
		settings: settings,
		workers:  1,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.tree = quadtree.New[behavior.Neighbor](w.origin, settings.Dims)
	w.buffers = make([]neighborBuffers, w.workers)
	return w
}

// AddBoid appends a boid and indexes it right away. The boid is kept even
// when it lies outside the area, in which case false is returned and it only
// becomes visible to the others once it has flown in.
func (w *World) AddBoid(pos, vel geometry.Vector2D) bool {
	b := behavior.New(pos, vel)
	w.boids = append(w.boids, b)
	if w.tree.Insert(behavior.Neighbor{Index: len(w.boids) - 1, Boid: b}) {
		w.indexed++
		return true
	}
	return false
}

// Tick advances the simulation by one step:
//  1. every boid queries the index for its protected and visible neighbours;
//  2. the steering rules turn those into a new velocity;
//  3. the velocity is limited and applied to the position;
//  4. the index is rebuilt from the new positions.
func (w *World) Tick() {
	if cap(w.next) < len(w.boids) {
		w.next = make([]behavior.Boid, len(w.boids))
	}
	w.next = w.next[:len(w.boids)]

	if w.workers < 2 || len(w.boids) < 2*w.workers {
		w.steerRange(0, len(w.boids), &w.buffers[0])
	} else {
		w.steerParallel()
	}

	w.boids, w.next = w.next, w.boids
	w.RebuildIndex()
	w.ticks++
}

func (w *World) steerParallel() {
	var g errgroup.Group
	g.SetLimit(w.workers)

	chunk := (len(w.boids) + w.workers - 1) / w.workers
	for i := range w.workers {
		start := i * chunk
		end := min(start+chunk, len(w.boids))
		if start >= end {
			break
		}
		buf := &w.buffers[i]
		g.Go(func() error {
			w.steerRange(start, end, buf)
			return nil
		})
	}
	g.Wait() // steerRange never fails
}

// steerRange writes the next state of boids [start, end) into w.next. It only
// reads w.boids and the tree, so disjoint ranges can run side by side.
func (w *World) steerRange(start, end int, buf *neighborBuffers) {
	s := w.settings
	for i := start; i < end; i++ {
		me := w.boids[i]
		buf.near = w.tree.AppendCircle(buf.near[:0], me.Pos, s.ProtectRange)
		buf.visible = w.tree.AppendCircle(buf.visible[:0], me.Pos, s.VisibleRange)
		w.next[i] = behavior.Steer(i, me, buf.near, buf.visible, w.origin, s)
	}
}

// RebuildIndex clears the tree, keeping its current bounds, and inserts every
// boid at its current position.
func (w *World) RebuildIndex() {
	w.tree.Clear()
	w.indexed = 0
	for i, b := range w.boids {
		if w.tree.Insert(behavior.Neighbor{Index: i, Boid: b}) {
			w.indexed++
		}
	}
}

// ResetIndex empties the tree and gives it new bounds. The boids are not
// touched and get indexed again by the next tick or RebuildIndex. The area the
// margins keep the boids in is still the one of the settings.
func (w *World) ResetIndex(topLeft, dims geometry.Vector2D) {
	w.tree.Reset(topLeft, dims)
	w.indexed = 0
}

// NumBoids is the number of boids in the world.
func (w *World) NumBoids() int {
	return len(w.boids)
}

// Indexed is the number of boids currently held by the tree.
func (w *World) Indexed() int {
	return w.indexed
}

// Boid returns the i-th boid.
func (w *World) Boid(i int) (behavior.Boid, bool) {
	if i < 0 || i >= len(w.boids) {
		return behavior.Boid{}, false
	}
	return w.boids[i], true
}

// Boids returns a copy of every boid.
func (w *World) Boids() []behavior.Boid {
	return append([]behavior.Boid(nil), w.boids...)
}

// Settings returns the current physics constants.
func (w *World) Settings() behavior.Settings {
	return w.settings
}

// SetSettings replaces the physics constants, taking effect at the next tick.
// The tree keeps its bounds, use ResetIndex to change them.
func (w *World) SetSettings(s behavior.Settings) {
	w.settings = s
}

// Origin is the top-left corner of the simulated area.
func (w *World) Origin() geometry.Vector2D {
	return w.origin
}

// Tree gives read access to the index. Callers must not insert into it.
func (w *World) Tree() *quadtree.QuadTree[behavior.Neighbor] {
	return w.tree
}

// TickCount is the number of ticks run so far.
func (w *World) TickCount() uint64 {
	return w.ticks
}

// MaxBoidSpeed is the highest speed in the flock, 0 when empty.
func (w *World) MaxBoidSpeed() float64 {
	var fastest float64
	for _, b := range w.boids {
		fastest = max(fastest, b.Speed())
	}
	return fastest
}

// MinBoidSpeed is the lowest speed in the flock, 0 when empty.
func (w *World) MinBoidSpeed() float64 {
	if len(w.boids) == 0 {
		return 0
	}
	slowest := w.boids[0].Speed()
	for _, b := range w.boids[1:] {
		slowest = min(slowest, b.Speed())
	}
	return slowest
}
