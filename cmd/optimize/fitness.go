package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/hunter/config"
	"github.com/pthm-cable/hunter/game"
	"github.com/pthm-cable/hunter/telemetry"
)

// FitnessEvaluator plays headless rounds and scores how quickly the hunter
// tags the player.
type FitnessEvaluator struct {
	params      *ParamVector
	rounds      int
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // pursuit quality from the most recent Evaluate call
	lastTagRate float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, rounds int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		rounds:      rounds,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 5.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastTagRate returns the fraction of rounds tagged in the most recent evaluation.
func (fe *FitnessEvaluator) LastTagRate() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastTagRate
}

// Stuck episodes cost this many ticks each, so configs that tag equally fast
// but grind on walls less are preferred.
const stuckPenaltyTicks = 30.0

// runResult holds the results from a single seed.
type runResult struct {
	roundTicks  []float64 // ticks to tag, or the round limit on timeout
	tagged      int
	stuckEvents int
	windowStats []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better): the
// mean ticks to tag across every seed and round, plus a stuck penalty.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		slog.Warn("rejected parameter vector", "error", err)
		return math.Inf(1)
	}

	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSeed(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var ticks, huntFrac []float64
	stuck, tagged := 0, 0
	for _, r := range results {
		tagged += r.tagged
		ticks = append(ticks, r.roundTicks...)
		stuck += r.stuckEvents
		for _, w := range r.windowStats {
			huntFrac = append(huntFrac, w.HuntFrac)
		}
	}

	fitness := stat.Mean(ticks, nil) + stuckPenaltyTicks*float64(stuck)/float64(len(ticks))

	fe.mu.Lock()
	fe.lastTagRate = float64(tagged) / float64(len(ticks))
	fe.lastQuality = 0
	if len(huntFrac) > 0 {
		fe.lastQuality = stat.Mean(huntFrac, nil)
	}
	fe.mu.Unlock()

	return fitness
}

// runSeed plays fe.rounds rounds on one seed. cfg is shared read-only.
func (fe *FitnessEvaluator) runSeed(cfg *config.Config, seed int64) *runResult {
	result := &runResult{}

	g, err := game.NewGameWithOptions(cfg, game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
			result.stuckEvents += stats.StuckEvents
		},
	})
	if err != nil {
		slog.Error("failed to start game", "seed", seed, "error", err)
		result.roundTicks = []float64{float64(cfg.Derived.RoundTicks)}
		return result
	}
	defer g.Unload()

	for played := 0; played < fe.rounds; {
		g.Step()
		if g.Phase() != game.PhaseRoundOver {
			continue
		}

		r := g.Result()
		result.roundTicks = append(result.roundTicks, float64(r.Ticks))
		if r.Tagged {
			result.tagged++
		}
		played++
		if played < fe.rounds {
			g.ResetRound()
		}
	}
	return result
}
