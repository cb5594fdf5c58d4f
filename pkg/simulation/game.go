package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"golang.org/x/time/rate"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Game drives a WorldActor: it paces the ticks and queries the world for
// stats. It replaces a rendering loop when running headless.
type Game struct {
	System   actor.ActorSystem
	worldPID *actor.PID
	runID    string

	frame      time.Duration
	limiter    *rate.Limiter
	askTimeout time.Duration
	sent       uint64
}

// NewGame spawns the world actor in system. Ticks are sent at most once per
// frame, a zero frame sends them as fast as possible.
func NewGame(ctx context.Context, system actor.ActorSystem, cfg *Config, runID string, frame time.Duration) (*Game, error) {
	worldActor := NewWorldActor(cfg, runID)
	worldPID, err := system.Spawn(ctx, "world", worldActor)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	limit := rate.Inf
	if frame > 0 {
		limit = rate.Every(frame)
	}

	return &Game{
		System:     system,
		worldPID:   worldPID,
		runID:      worldActor.RunID(),
		frame:      frame,
		limiter:    rate.NewLimiter(limit, 1),
		askTimeout: 5 * time.Second,
	}, nil
}

// RunID identifies the run.
func (g *Game) RunID() string {
	return g.runID
}

// Sent is the number of ticks sent to the world.
func (g *Game) Sent() uint64 {
	return g.sent
}

// Update waits for the next frame then asks the world for one tick.
func (g *Game) Update(ctx context.Context) error {
	r := g.limiter.Reserve()
	select {
	case <-time.After(r.Delay()):
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
	if err := actor.Tell(ctx, g.worldPID, durationpb.New(g.frame)); err != nil {
		return fmt.Errorf("failed to send tick: %w", err)
	}
	g.sent++
	return nil
}

// Stats asks the world for its current state. Ticks sent before are
// processed first.
func (g *Game) Stats(ctx context.Context) (Stats, error) {
	reply, err := actor.Ask(ctx, g.worldPID, &emptypb.Empty{}, g.askTimeout)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to ask stats: %w", err)
	}
	msg, ok := reply.(*structpb.Struct)
	if !ok {
		return Stats{}, fmt.Errorf("unexpected stats reply %T", reply)
	}
	return StatsFromProto(msg), nil
}

// Tune changes configuration fields of the running world, keyed by their
// JSON name. Invalid values are ignored by the world.
func (g *Game) Tune(ctx context.Context, fields map[string]any) error {
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return fmt.Errorf("failed to encode config update: %w", err)
	}
	return actor.Tell(ctx, g.worldPID, msg)
}

// Run sends ticks until ticks have been sent, or until ctx is done when ticks
// is 0. Every summaryInterval, and once at the end, report receives the world
// stats. A cancelled context ends the run without error.
func (g *Game) Run(ctx context.Context, ticks uint64, summaryInterval time.Duration, report func(Stats)) error {
	lastSummary := time.Now()

	for ticks == 0 || g.sent < ticks {
		if err := g.Update(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			return err
		}

		if summaryInterval > 0 && time.Since(lastSummary) >= summaryInterval {
			stats, err := g.Stats(ctx)
			if err != nil {
				if ctx.Err() != nil {
					break
				}
				return err
			}
			report(stats)
			lastSummary = time.Now()
		}
	}

	// final report, even after ctx is cancelled
	stats, err := g.Stats(context.WithoutCancel(ctx))
	if err != nil {
		return err
	}
	report(stats)
	return nil
}

// Stop shuts the actor system down.
func (g *Game) Stop(ctx context.Context) error {
	if err := g.System.Stop(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
