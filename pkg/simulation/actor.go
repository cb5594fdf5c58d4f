package simulation

import (
	"time"

	"github.com/google/uuid"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// WorldActor hosts a World inside the actor system. It owns the flock and the
// quadtree; everything else talks to it with messages:
//
//   - *durationpb.Duration runs one tick, the duration being the frame budget;
//   - *emptypb.Empty asks for the current Stats as a *structpb.Struct;
//   - *structpb.Struct tunes the configuration with the given JSON fields.
type WorldActor struct {
	cfg   *Config
	world *World
	runID string

	// --- Benchmark Stats ---
	tickAvgMs     float64
	ticksSinceLog int
	overBudget    int
	lastLogTime   time.Time
	logInterval   time.Duration
}

// NewWorldActor creates the world logic unit. An empty runID gets a random
// one.
func NewWorldActor(cfg *Config, runID string) *WorldActor {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &WorldActor{
		cfg:         cfg,
		runID:       runID,
		lastLogTime: time.Now(),
		logInterval: time.Second,
	}
}

// RunID identifies this run in logs and stats.
func (w *WorldActor) RunID() string {
	return w.runID
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	w.world = w.cfg.NewWorld()
	ctx.ActorSystem().Logger().Infof("World %s created (%vx%v, %d workers)",
		w.runID, w.cfg.WorldWidth, w.cfg.WorldHeight, w.cfg.Workers)
	return nil
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World %s stopped after %d ticks", w.runID, w.world.TickCount())
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Info("World Started. Spawning Swarm...")
		w.spawnSwarm(ctx)

	// The Main Simulation Step (Driven by the host loop)
	case *durationpb.Duration:
		w.tick(ctx, msg.AsDuration())

	case *emptypb.Empty:
		reply, err := w.stats().ToProto()
		if err != nil {
			ctx.Err(err)
			return
		}
		ctx.Response(reply)

	// Live tuning, the way the UI sliders used to do it
	case *structpb.Struct:
		w.updateConfig(ctx, msg)

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) spawnSwarm(ctx *actor.ReceiveContext) {
	indexed := Spawn(w.world, w.cfg.NumBoids, NewRand(w.cfg.Seed))
	observeWorld(w.world)
	ctx.Logger().Infof("Spawned %d boids, %d indexed", w.world.NumBoids(), indexed)
}

func (w *WorldActor) tick(ctx *actor.ReceiveContext, budget time.Duration) {
	start := time.Now()
	w.world.Tick()
	elapsed := time.Since(start)

	observeTick(w.world, elapsed)

	ms := float64(elapsed.Microseconds()) / 1000
	if w.world.TickCount() == 1 {
		w.tickAvgMs = ms
	} else {
		w.tickAvgMs = w.tickAvgMs*0.95 + ms*0.05
	}
	w.ticksSinceLog++
	if budget > 0 && elapsed > budget {
		w.overBudget++
	}

	w.logBenchmarks(ctx)
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= w.logInterval {
		ctx.Logger().Debugf("📊 TICK RATE: %d/sec (avg %.3f ms, over budget: %d) | Boids: %d (indexed %d)",
			w.ticksSinceLog, w.tickAvgMs, w.overBudget, w.world.NumBoids(), w.world.Indexed())
		w.ticksSinceLog = 0
		w.overBudget = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) stats() Stats {
	s := StatsOf(w.world)
	s.RunID = w.runID
	s.TickMillis = w.tickAvgMs
	return s
}

// updateConfig applies the fields of msg to the running configuration. The
// population, workers and seed only matter at spawn time and are ignored
// afterwards. A new world size resets the quadtree bounds.
func (w *WorldActor) updateConfig(ctx *actor.ReceiveContext, msg *structpb.Struct) {
	b, err := msg.MarshalJSON()
	if err != nil {
		ctx.Logger().Warnf("Ignoring config update: %v", err)
		return
	}
	cfg, err := w.cfg.Merge(b)
	if err != nil {
		ctx.Logger().Warnf("Ignoring config update: %v", err)
		return
	}

	resized := cfg.WorldWidth != w.cfg.WorldWidth || cfg.WorldHeight != w.cfg.WorldHeight
	w.cfg = cfg
	w.world.SetSettings(cfg.Settings())
	if resized {
		w.world.ResetIndex(w.world.Origin(), cfg.Settings().Dims)
		w.world.RebuildIndex()
		observeWorld(w.world)
	}
	ctx.Logger().Infof("Config updated (%d fields, resized: %t)", len(msg.GetFields()), resized)
}
