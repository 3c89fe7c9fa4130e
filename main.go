package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/profile"

	"github.com/pthm-cable/cellgrid/config"
	"github.com/pthm-cable/cellgrid/game"
	"github.com/pthm-cable/cellgrid/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 1000, "Stop after N ticks (0 = unlimited)")
	dt := flag.Float64("dt", 0, "Seconds per tick (0 = physics.dt from config)")
	scenario := flag.String("scenario", "", "Initial population: empty, triangle, random (empty = config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	workers := flag.Int("workers", 0, "Compute workers (0 = config)")
	profileMode := flag.String("profile", "", "Write a cpu or mem profile to the current directory")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		slog.Error("unknown profile mode", "profile", *profileMode)
		os.Exit(2)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	tickDT := cfg.Physics.DT
	if *dt > 0 {
		tickDT = min(*dt, cfg.Physics.MaxDT)
	}

	name := cfg.Population.Scenario
	if *scenario != "" {
		name = *scenario
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	var perf *telemetry.PerfCollector
	if *logStats || output != nil {
		perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	}

	sim := game.NewSim(cfg, game.Options{
		Seed:     rngSeed,
		Workers:  *workers,
		Perf:     perf,
		Output:   output,
		LogStats: *logStats,
	})

	if err := sim.Populate(name); err != nil {
		slog.Error("failed to populate world", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"scenario", name,
		"dt", tickDT,
		"max_ticks", *maxTicks,
		"grid", [2]int{cfg.World.Width, cfg.World.Height},
		"entities", sim.Store().Len(),
	)

	start := time.Now()
	for *maxTicks <= 0 || int(sim.TickCount()) < *maxTicks {
		sim.Tick(tickDT)
	}
	sim.Close()

	pop := sim.Census()
	slog.Info("simulation finished",
		"tick", sim.TickCount(),
		"sim_time", sim.SimTime(),
		"wall_time", time.Since(start).Round(time.Millisecond).String(),
		"cells", pop.Cells,
		"active", pop.ActiveCells,
		"food", pop.Food,
		"dropped", sim.Dropped(),
	)

	if err := output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
		os.Exit(1)
	}
}
