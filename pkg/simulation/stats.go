package simulation

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// Stats is a snapshot of the world state reported by the actor.
type Stats struct {
	RunID      string
	Ticks      uint64
	Boids      int
	Indexed    int
	Nodes      int
	Depth      int
	MinSpeed   float64
	MaxSpeed   float64
	TickMillis float64 // moving average of the tick duration
}

// StatsOf reads the current state of a world.
func StatsOf(w *World) Stats {
	tree := w.Tree().Stats()
	return Stats{
		Ticks:    w.TickCount(),
		Boids:    w.NumBoids(),
		Indexed:  w.Indexed(),
		Nodes:    tree.Nodes,
		Depth:    tree.Depth,
		MinSpeed: w.MinBoidSpeed(),
		MaxSpeed: w.MaxBoidSpeed(),
	}
}

// ToProto converts the stats into the message sent back to the asker.
func (s Stats) ToProto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"runId":      s.RunID,
		"ticks":      s.Ticks,
		"boids":      s.Boids,
		"indexed":    s.Indexed,
		"nodes":      s.Nodes,
		"depth":      s.Depth,
		"minSpeed":   s.MinSpeed,
		"maxSpeed":   s.MaxSpeed,
		"tickMillis": s.TickMillis,
	})
}

// StatsFromProto converts a stats reply back. Missing fields stay zero.
func StatsFromProto(p *structpb.Struct) Stats {
	f := p.GetFields()
	num := func(k string) float64 { return f[k].GetNumberValue() }
	return Stats{
		RunID:      f["runId"].GetStringValue(),
		Ticks:      uint64(num("ticks")),
		Boids:      int(num("boids")),
		Indexed:    int(num("indexed")),
		Nodes:      int(num("nodes")),
		Depth:      int(num("depth")),
		MinSpeed:   num("minSpeed"),
		MaxSpeed:   num("maxSpeed"),
		TickMillis: num("tickMillis"),
	}
}

// Map flattens the stats for structured logging.
func (s Stats) Map() map[string]any {
	return map[string]any{
		"ticks":       s.Ticks,
		"boids":       s.Boids,
		"indexed":     s.Indexed,
		"nodes":       s.Nodes,
		"depth":       s.Depth,
		"min_speed":   s.MinSpeed,
		"max_speed":   s.MaxSpeed,
		"tick_avg_ms": s.TickMillis,
	}
}
