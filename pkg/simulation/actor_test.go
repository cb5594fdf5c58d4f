package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func startWorld(t *testing.T, cfg *Config) (context.Context, *actor.PID) {
	t.Helper()
	ctx := context.Background()

	system, err := actor.NewActorSystem("FlockTest",
		actor.WithLogger(golog.DiscardLogger),
		actor.WithActorInitMaxRetries(3))
	require.NoError(t, err)
	require.NoError(t, system.Start(ctx))
	t.Cleanup(func() {
		_ = system.Stop(ctx)
	})

	pid, err := system.Spawn(ctx, "world", NewWorldActor(cfg, "test-run"))
	require.NoError(t, err)
	return ctx, pid
}

func askStats(t *testing.T, ctx context.Context, pid *actor.PID) Stats {
	t.Helper()
	reply, err := actor.Ask(ctx, pid, &emptypb.Empty{}, 5*time.Second)
	require.NoError(t, err)
	msg, ok := reply.(*structpb.Struct)
	require.True(t, ok, "unexpected reply %T", reply)
	return StatsFromProto(msg)
}

func TestWorldActor_TickAndStats(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumBoids = 150
	cfg.Seed = 99
	ctx, pid := startWorld(t, cfg)

	stats := askStats(t, ctx, pid)
	require.Equal(t, "test-run", stats.RunID)
	require.Equal(t, 150, stats.Boids)
	require.Equal(t, 150, stats.Indexed)
	require.Zero(t, stats.Ticks)

	for range 10 {
		require.NoError(t, actor.Tell(ctx, pid, durationpb.New(16*time.Millisecond)))
	}

	stats = askStats(t, ctx, pid)
	require.Equal(t, uint64(10), stats.Ticks)
	require.Equal(t, 150, stats.Boids)
	require.Equal(t, stats.Boids, stats.Indexed)
	require.Greater(t, stats.Nodes, 1)
	require.GreaterOrEqual(t, stats.MinSpeed, cfg.MinSpeed-1e-9)
	require.LessOrEqual(t, stats.MaxSpeed, cfg.MaxSpeed+1e-9)
	require.GreaterOrEqual(t, stats.TickMillis, 0.0)
}

func TestWorldActor_ConfigUpdate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumBoids = 200
	cfg.Seed = 5
	ctx, pid := startWorld(t, cfg)

	// shrinking the world leaves part of the flock outside the quadtree
	update, err := structpb.NewStruct(map[string]any{"worldWidth": 400})
	require.NoError(t, err)
	require.NoError(t, actor.Tell(ctx, pid, update))

	stats := askStats(t, ctx, pid)
	require.Equal(t, 200, stats.Boids)
	require.Less(t, stats.Indexed, 200)

	// invalid updates are ignored
	bad, err := structpb.NewStruct(map[string]any{"minSpeed": 10})
	require.NoError(t, err)
	require.NoError(t, actor.Tell(ctx, pid, bad))
	require.NoError(t, actor.Tell(ctx, pid, durationpb.New(0)))

	stats = askStats(t, ctx, pid)
	require.Equal(t, uint64(1), stats.Ticks)
	require.LessOrEqual(t, stats.MaxSpeed, cfg.MaxSpeed+1e-9)
}

func TestStatsProto(t *testing.T) {
	want := Stats{
		RunID:      "abc",
		Ticks:      12,
		Boids:      500,
		Indexed:    498,
		Nodes:      321,
		Depth:      7,
		MinSpeed:   2,
		MaxSpeed:   3.75,
		TickMillis: 0.25,
	}
	msg, err := want.ToProto()
	require.NoError(t, err)
	require.Equal(t, want, StatsFromProto(msg))
	require.Equal(t, Stats{}, StatsFromProto(nil))
}
