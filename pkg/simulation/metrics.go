package simulation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boids_ticks_total",
		Help: "The number of simulation ticks run.",
	})

	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "boids_tick_duration_seconds",
		Help:    "The time spent computing one simulation tick.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
	})

	agentsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "boids_agents",
		Help: "The number of boids in the world.",
	})

	indexedAgentsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "boids_indexed_agents",
		Help: "The number of boids held by the quadtree.",
	})

	outsideAgentsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "boids_agents_outside",
		Help: "The number of boids outside the quadtree bounds.",
	})

	quadtreeNodesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "boids_quadtree_nodes",
		Help: "The number of nodes in the quadtree arena.",
	})

	quadtreeDepthGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "boids_quadtree_depth",
		Help: "The deepest level of the quadtree.",
	})
)

func observeTick(w *World, d time.Duration) {
	ticksTotal.Inc()
	tickDuration.Observe(d.Seconds())
	observeWorld(w)
}

func observeWorld(w *World) {
	stats := w.Tree().Stats()
	agentsGauge.Set(float64(w.NumBoids()))
	indexedAgentsGauge.Set(float64(w.Indexed()))
	outsideAgentsGauge.Set(float64(w.NumBoids() - w.Indexed()))
	quadtreeNodesGauge.Set(float64(stats.Nodes))
	quadtreeDepthGauge.Set(float64(stats.Depth))
}
