package main

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"

	"github.com/pthm-cable/cellgrid/config"
	"github.com/pthm-cable/cellgrid/game"
)

// unstableFitness is returned for runs that blew up.
const unstableFitness = 1e6

// FitnessEvaluator runs headless triangle scenarios and scores how well the
// links hold their rest length.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	seeds      []int64
	configPath string
	jitter     float64

	mu          sync.Mutex
	bestFitness float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, configPath string, jitter float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		configPath:  configPath,
		jitter:      jitter,
		bestFitness: math.Inf(1),
	}
}

// BestFitness returns the lowest mean fitness seen so far.
func (fe *FitnessEvaluator) BestFitness() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestFitness
}

// Evaluate returns the mean fitness over all seeds (lower is better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			f, err := fe.runTriangle(x, s)
			if err != nil {
				slog.Debug("unstable run", "seed", s, "err", err)
				f = unstableFitness
			}
			results[idx] = f
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, f := range results {
		total += f
	}
	avg := total / float64(len(results))

	fe.mu.Lock()
	fe.bestFitness = min(fe.bestFitness, avg)
	fe.mu.Unlock()
	return avg
}

// runTriangle scores one run: the mean absolute deviation of the three link
// lengths from the rest length over the second half of the run.
func (fe *FitnessEvaluator) runTriangle(x []float64, seed int64) (fitness float64, err error) {
	cfg, err := config.Load(fe.configPath)
	if err != nil {
		return 0, err
	}
	fe.params.ApplyToConfig(cfg, x)
	if err := cfg.Refresh(); err != nil {
		return 0, err
	}

	sim := game.NewSim(cfg, game.Options{Seed: seed, Workers: 1})
	defer sim.Close()

	// Integrate panics on non-finite positions; treat that as instability.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("simulation panicked: %v", r)
		}
	}()

	ids, err := sim.SeedTriangle()
	if err != nil {
		return 0, err
	}
	rng := rand.New(rand.NewSource(seed))
	for _, id := range ids {
		e, _ := sim.GetMut(id)
		e.Cell.XVel += rng.NormFloat64() * fe.jitter
		e.Cell.YVel += rng.NormFloat64() * fe.jitter
	}

	rest := cfg.Connection.RestLength
	var sum float64
	var samples int
	for tick := 0; tick < fe.maxTicks; tick++ {
		sim.Tick(cfg.Physics.DT)
		if tick < fe.maxTicks/2 {
			continue
		}
		for i := range ids {
			a, okA := sim.Get(ids[i])
			b, okB := sim.Get(ids[(i+1)%len(ids)])
			if !okA || !okB {
				return 0, fmt.Errorf("triangle cell lost at tick %d", tick)
			}
			d := math.Hypot(a.Cell.X-b.Cell.X, a.Cell.Y-b.Cell.Y)
			sum += math.Abs(d - rest)
			samples++
		}
	}
	if samples == 0 {
		return 0, fmt.Errorf("run too short to score: %d ticks", fe.maxTicks)
	}
	return sum / float64(samples), nil
}
