package simulation

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/geometry"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/segmentio/encoding/json"
)

// ErrInvalidConfig is returned when a configuration is well formed but its
// values cannot work together.
var ErrInvalidConfig = errors.New("invalid configuration")

//go:embed config.schema.json
var configSchema []byte

const configSchemaURL = "config.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(configSchemaURL, bytes.NewReader(configSchema)); err != nil {
		return nil, err
	}
	return c.Compile(configSchemaURL)
})

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`

	// Population
	NumBoids int `json:"numBoids"`

	// Interaction Radii
	VisibleRange float64 `json:"visibleRange"` // How far can they see?
	ProtectRange float64 `json:"protectRange"` // Personal space radius

	AvoidFactor    float64 `json:"avoidFactor"`    // Separation strength
	AlignFactor    float64 `json:"alignFactor"`    // Alignment strength
	CohesionFactor float64 `json:"cohesionFactor"` // Cohesion strength

	Margin     float64 `json:"margin"`
	TurnFactor float64 `json:"turnFactor"` // Edge turning strength

	MaxSpeed float64 `json:"maxSpeed"`
	MinSpeed float64 `json:"minSpeed"`

	// Execution
	Workers int    `json:"workers"`
	Seed    uint64 `json:"seed"` // 0 picks a random seed
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:     1000,
		WorldHeight:    800,
		NumBoids:       500,
		VisibleRange:   70.0,
		ProtectRange:   20.0,
		AvoidFactor:    0.05,
		AlignFactor:    0.05,
		CohesionFactor: 0.0005,
		Margin:         100,
		TurnFactor:     0.2,
		MaxSpeed:       4.0,
		MinSpeed:       2.0,
		Workers:        1,
	}
}

// LoadConfig loads configuration from a JSON file and validates it against
// the embedded schema. Fields missing from the file keep their default value.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(b)
}

// ParseConfig is LoadConfig for an in-memory document.
func ParseConfig(b []byte) (*Config, error) {
	return DefaultConfig().Merge(b)
}

// Merge returns a copy of the configuration with the fields present in the
// JSON document b overwritten. The document is checked against the schema
// and the result against Validate.
func (c *Config) Merge(b []byte) (*Config, error) {
	// 1. Compile Schema
	sch, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Validate
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 3. Unmarshal into Struct
	merged := *c
	if err := json.Unmarshal(b, &merged); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Validate checks the rules relating several fields. A protected range wider
// than the visible range, or a margin covering the whole world, only changes
// how the flock behaves and is accepted.
func (c *Config) Validate() error {
	switch {
	case c.WorldWidth <= 0 || c.WorldHeight <= 0:
		return fmt.Errorf("%w: world must have a positive size, got %vx%v", ErrInvalidConfig, c.WorldWidth, c.WorldHeight)
	case c.NumBoids < 0:
		return fmt.Errorf("%w: negative number of boids %d", ErrInvalidConfig, c.NumBoids)
	case c.MinSpeed < 0 || c.MaxSpeed <= 0:
		return fmt.Errorf("%w: speeds must be positive, got min %v max %v", ErrInvalidConfig, c.MinSpeed, c.MaxSpeed)
	case c.MinSpeed > c.MaxSpeed:
		return fmt.Errorf("%w: minSpeed %v above maxSpeed %v", ErrInvalidConfig, c.MinSpeed, c.MaxSpeed)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// Settings extracts the physics constants of the flock.
func (c *Config) Settings() behavior.Settings {
	return behavior.Settings{
		Dims:           geometry.Vector2D{X: c.WorldWidth, Y: c.WorldHeight},
		VisibleRange:   c.VisibleRange,
		ProtectRange:   c.ProtectRange,
		AvoidFactor:    c.AvoidFactor,
		AlignFactor:    c.AlignFactor,
		CohesionFactor: c.CohesionFactor,
		Margin:         c.Margin,
		TurnFactor:     c.TurnFactor,
		MaxSpeed:       c.MaxSpeed,
		MinSpeed:       c.MinSpeed,
	}
}

// NewWorld creates an empty world from the configuration.
func (c *Config) NewWorld() *World {
	return NewWorld(c.Settings(), WithWorkers(c.Workers))
}
