package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"reflect"
	"sync"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-flock-quadtree/pkg/simulation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

var (
	// The version number. Set at build.
	version = "v0.3.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "boids_info",
		Help:        "Boids simulation information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// Keeps the config field names readable by the cli package when obfuscated.
var _ = reflect.TypeOf(config{})

type config struct {
	Config             string        `cli:""        env:"BOIDS_CONFIG"               help:"JSON configuration file of the flock. Defaults are used when empty."`
	Ticks              uint64        `cli:""        env:"BOIDS_TICKS"                help:"Number of ticks to run, 0 runs until interrupted."`
	FrameDuration      time.Duration `cli:""        env:"BOIDS_FRAME_DURATION"       help:"Minimum duration of a tick, 0 runs as fast as possible."`
	AdminAddr          string        `cli:""        env:"BOIDS_ADMIN_ADDR"           help:"Admin listening address, serving /metrics and /health. Disabled when empty."`
	LogLevel           string        `cli:""        env:"BOIDS_LOG_LEVEL"            help:"Log level (debug|info|warning|error)."`
	LogIndent          bool          `cli:""        env:"BOIDS_LOG_INDENT"           help:"Indent logs."`
	LogSummaryInterval time.Duration `cli:",hidden" env:"BOIDS_LOG_SUMMARY_INTERVAL" help:"The duration between each world summary log."`
	ActorLogs          bool          `cli:",hidden" env:"BOIDS_ACTOR_LOGS"           help:"Print the actor system logs."`
	Version            bool          `cli:""        env:"-"                          help:"Show version."`
	Help               bool          `cli:""        env:"-"                          help:"Show help."`
}

func main() {
	conf := config{
		FrameDuration:      time.Second / 60,
		AdminAddr:          ":18190",
		LogLevel:           logs.InfoLevel.String(),
		LogSummaryInterval: time.Second * 10,
	}

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Runs a headless boids flocking simulation.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	simConf, err := loadConfig(conf.Config)
	if err != nil {
		logs.Fatal(err)
	}

	runID := uuid.NewString()

	var actorLogger golog.Logger = golog.DiscardLogger
	if conf.ActorLogs {
		actorLogger = golog.DefaultLogger
	}
	system, err := actor.NewActorSystem("FlockWorld",
		actor.WithLogger(actorLogger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		logs.Fatal(errors.New("creating actor system failed").Wrap(err))
	}
	if err := system.Start(ctx); err != nil {
		logs.Fatal(errors.New("starting actor system failed").Wrap(err))
	}

	game, err := simulation.NewGame(ctx, system, simConf, runID, conf.FrameDuration)
	if err != nil {
		logs.Fatal(errors.New("starting world failed").
			WithTag("run_id", runID).
			Wrap(err))
	}

	logs.WithTag("version", version).
		WithTag("run_id", runID).
		WithTag("log_level", conf.LogLevel).
		WithTag("boids", simConf.NumBoids).
		WithTag("world", fmt.Sprintf("%vx%v", simConf.WorldWidth, simConf.WorldHeight)).
		WithTag("workers", simConf.Workers).
		WithTag("ticks", conf.Ticks).
		WithTag("frame_duration", conf.FrameDuration).
		Info("starting boids simulation")

	runCtx, stopRun := context.WithCancel(ctx)
	defer stopRun()

	var wg sync.WaitGroup
	if conf.AdminAddr != "" {
		var admin http.ServeMux
		admin.Handle("/metrics", promhttp.Handler())
		admin.HandleFunc("/health", handleHealthCheck)

		wg.Add(1)
		go func() {
			defer wg.Done()
			listenAndServe(runCtx, &http.Server{
				Addr:    conf.AdminAddr,
				Handler: metrics.HTTPHandler(&admin, metricsPathFormatter),
			})
		}()
	}

	err = game.Run(runCtx, conf.Ticks, conf.LogSummaryInterval, func(s simulation.Stats) {
		logStats(runID, s)
	})
	if err != nil {
		logs.Warn(errors.New("simulation stopped").
			WithTag("run_id", runID).
			Wrap(err))
	}

	stopRun()
	wg.Wait()

	if err := game.Stop(context.Background()); err != nil {
		logs.Warn(errors.New("stopping actor system failed").Wrap(err))
	}
	logs.WithTag("run_id", runID).
		WithTag("ticks_sent", game.Sent()).
		Info("boids simulation stopped")
}

func loadConfig(path string) (*simulation.Config, error) {
	if path == "" {
		cfg := simulation.DefaultConfig()
		return cfg, cfg.Validate()
	}

	cfg, err := simulation.LoadConfig(path)
	if err != nil {
		return nil, errors.New("loading config failed").
			WithTag("file_name", path).
			Wrap(err)
	}
	return cfg, nil
}

func logStats(runID string, s simulation.Stats) {
	l := logs.WithTag("run_id", runID)
	for k, v := range s.Map() {
		l = l.WithTag(k, v)
	}
	l.Info("world summary")
}
