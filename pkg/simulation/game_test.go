package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

func newTestGame(t *testing.T, cfg *Config, frame time.Duration) *Game {
	t.Helper()
	ctx := context.Background()

	system, err := actor.NewActorSystem("FlockGameTest", actor.WithLogger(golog.DiscardLogger))
	require.NoError(t, err)
	require.NoError(t, system.Start(ctx))

	g, err := NewGame(ctx, system, cfg, "", frame)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, g.Stop(ctx))
	})
	return g
}

func TestGame_RunFixedTicks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumBoids = 100
	cfg.Seed = 3
	g := newTestGame(t, cfg, 0)
	require.NotEmpty(t, g.RunID())

	var reports []Stats
	err := g.Run(context.Background(), 20, 0, func(s Stats) {
		reports = append(reports, s)
	})
	require.NoError(t, err)
	require.Equal(t, uint64(20), g.Sent())

	require.Len(t, reports, 1)
	last := reports[0]
	require.Equal(t, g.RunID(), last.RunID)
	require.Equal(t, uint64(20), last.Ticks)
	require.Equal(t, 100, last.Boids)
}

func TestGame_RunUntilCancelled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumBoids = 50
	g := newTestGame(t, cfg, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var reports []Stats
	err := g.Run(ctx, 0, 20*time.Millisecond, func(s Stats) {
		reports = append(reports, s)
	})
	require.NoError(t, err)
	require.NotEmpty(t, reports)

	last := reports[len(reports)-1]
	require.Equal(t, g.Sent(), last.Ticks)
	require.Positive(t, last.Ticks)
	require.Less(t, last.Ticks, uint64(100), "ticks are paced")
}

func TestGame_Tune(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumBoids = 80
	g := newTestGame(t, cfg, 0)
	ctx := context.Background()

	require.NoError(t, g.Tune(ctx, map[string]any{"maxSpeed": 2.5, "minSpeed": 2.5}))
	for range 3 {
		require.NoError(t, g.Update(ctx))
	}

	stats, err := g.Stats(ctx)
	require.NoError(t, err)
	require.InDelta(t, 2.5, stats.MinSpeed, 1e-9)
	require.InDelta(t, 2.5, stats.MaxSpeed, 1e-9)
}
