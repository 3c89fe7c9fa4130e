// Command tune searches connection physics parameters with CMA-ES so that
// linked cells settle near their rest length without ringing.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/cellgrid/config"
)

// evalRow is one line of tune_log.csv.
type evalRow struct {
	Eval     int     `csv:"eval"`
	Fitness  float64 `csv:"fitness"`
	Spring   float64 `csv:"spring"`
	Damping  float64 `csv:"damping"`
	DragCoef float64 `csv:"drag_coef"`
}

// formatDuration formats a duration as HhMMmSSs or MmSSs.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 600, "Ticks per evaluation run")
	seeds := flag.Int("seeds", 4, "Number of seeds per evaluation")
	jitter := flag.Float64("jitter", 1.0, "Std dev of the random velocity kick per cell")
	maxEvals := flag.Int("max-evals", 150, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if *outputDir == "" {
		fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fatal("creating output directory", "err", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		fatal("loading config", "err", err)
	}

	params := NewParamVector(baseCfg)
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, *maxTicks, evalSeeds, *configPath, *jitter)

	dim := params.Dim()
	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		fatal("creating log file", "err", err)
	}
	defer logFile.Close()

	var (
		evalCount   int
		bestFitness = unstableFitness
		bestParams  []float64
		startTime   = time.Now()
	)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}

			row := []evalRow{{Eval: evalCount, Fitness: fitness, Spring: raw[0], Damping: raw[1], DragCoef: raw[2]}}
			if evalCount == 1 {
				err = gocsv.Marshal(row, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(row, logFile)
			}
			if err != nil {
				slog.Warn("writing log row", "err", err)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(*maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			slog.Info("eval",
				"n", evalCount,
				"of", *maxEvals,
				"fitness", fitness,
				"best", bestFitness,
				"elapsed", formatDuration(elapsed),
				"eta", formatDuration(remaining),
			)
			return fitness
		},
	}

	slog.Info("starting CMA-ES", "params", dim, "population", popSize, "max_evals", *maxEvals,
		"seeds", *seeds, "ticks", *maxTicks)

	result, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method)
	if err != nil {
		slog.Warn("optimization ended", "err", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		fatal("no evaluations completed")
	}

	attrs := []any{"evals", evalCount, "duration", formatDuration(time.Since(startTime)), "fitness", bestFitness}
	for i, spec := range params.Specs {
		attrs = append(attrs, spec.Name, bestParams[i])
	}
	slog.Info("optimization complete", attrs...)

	params.ApplyToConfig(baseCfg, bestParams)
	if err := baseCfg.Refresh(); err != nil {
		fatal("best parameters produced an invalid config", "err", err)
	}
	configOut := filepath.Join(*outputDir, "best_config.yaml")
	if err := baseCfg.WriteYAML(configOut); err != nil {
		fatal("writing best config", "err", err)
	}
	slog.Info("best config saved", "path", configOut)
}

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}
