package simulation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	s := cfg.Settings()
	require.Equal(t, vec(1000, 800), s.Dims)
	require.Equal(t, 70.0, s.VisibleRange)
	require.Equal(t, 20.0, s.ProtectRange)
	require.Equal(t, cfg.MaxSpeed, s.MaxSpeed)
	require.Equal(t, cfg.MinSpeed, s.MinSpeed)
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"numBoids": 42, "maxSpeed": 6, "workers": 3, "seed": 1234}`))
	require.NoError(t, err)
	require.Equal(t, 42, cfg.NumBoids)
	require.Equal(t, 6.0, cfg.MaxSpeed)
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, uint64(1234), cfg.Seed)

	// untouched fields keep their defaults
	def := DefaultConfig()
	require.Equal(t, def.WorldWidth, cfg.WorldWidth)
	require.Equal(t, def.CohesionFactor, cfg.CohesionFactor)
	require.Equal(t, def.MinSpeed, cfg.MinSpeed)
}

func TestParseConfig_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		invalid bool // rejected by Validate rather than by the schema
	}{
		{name: "not json", doc: `{"numBoids": `},
		{name: "unknown field", doc: `{"numRedAtStart": 5}`},
		{name: "wrong type", doc: `{"maxSpeed": "fast"}`},
		{name: "fractional count", doc: `{"numBoids": 2.5}`},
		{name: "negative range", doc: `{"visibleRange": -1}`},
		{name: "zero workers", doc: `{"workers": 0}`},
		{name: "zero width", doc: `{"worldWidth": 0}`},
		{name: "min above max", doc: `{"minSpeed": 5, "maxSpeed": 4}`, invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.doc))
			require.Error(t, err)
			require.Nil(t, cfg)
			require.Equal(t, tt.invalid, errors.Is(err, ErrInvalidConfig), "%v", err)
		})
	}
}

func TestParseConfig_UnusualButAllowed(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"protectRange": 80}`))
	require.NoError(t, err)
	require.Equal(t, 80.0, cfg.ProtectRange)
	require.Greater(t, cfg.ProtectRange, cfg.VisibleRange)

	cfg, err = ParseConfig([]byte(`{"margin": 400, "numBoids": 50}`))
	require.NoError(t, err)
	require.Equal(t, 400.0, cfg.Margin)

	// the margin covers the whole world: the flock spawns anywhere inside it
	w := cfg.NewWorld()
	require.Equal(t, 50, Spawn(w, cfg.NumBoids, NewRand(cfg.Seed)))
	require.Equal(t, 50, w.NumBoids())
	w.Tick()
	require.Equal(t, uint64(1), w.TickCount())
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()

	merged, err := base.Merge([]byte(`{"alignFactor": 0.2, "worldWidth": 600}`))
	require.NoError(t, err)
	require.Equal(t, 0.2, merged.AlignFactor)
	require.Equal(t, 600.0, merged.WorldWidth)

	require.Equal(t, DefaultConfig(), base, "receiver must not change")

	tuned, err := merged.Merge([]byte(`{"protectRange": 90, "worldHeight": 150}`))
	require.NoError(t, err)
	require.Equal(t, 90.0, tuned.ProtectRange)
	require.Equal(t, 150.0, tuned.WorldHeight)

	_, err = merged.Merge([]byte(`{"minSpeed": 5}`))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "flock.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"worldWidth": 1920,
		"worldHeight": 1080,
		"numBoids": 3000,
		"margin": 50
	}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 1920.0, cfg.WorldWidth)
	require.Equal(t, 1080.0, cfg.WorldHeight)
	require.Equal(t, 3000, cfg.NumBoids)
	require.Equal(t, 50.0, cfg.Margin)

	w := cfg.NewWorld()
	require.Equal(t, vec(1920, 1080), w.Tree().Bounds().Dims)

	_, err = LoadConfig(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
