package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/hunter/config"
)

type options struct {
	configPath string
	rounds     int
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&opts.rounds, "rounds", 4, "Rounds per seed per evaluation")
	flag.IntVar(&opts.seeds, "seeds", 4, "Number of seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	if opts.outputDir == "" {
		return errors.New("--output is required")
	}
	if opts.rounds < 1 || opts.seeds < 1 {
		return errors.New("--rounds and --seeds must be at least 1")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	seeds := make([]int64, opts.seeds)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, opts.rounds, seeds, baseCfg)

	prog, err := newProgress(filepath.Join(opts.outputDir, "optimize_log.csv"), params, opts.maxEvals)
	if err != nil {
		return err
	}
	defer prog.close()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			prog.record(raw, fitness, evaluator.LastTagRate(), evaluator.LastQuality())
			return fitness
		},
	}

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(params.Dim())/2.0)
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	// Seeds already run in parallel inside Evaluate
	settings := &optimize.Settings{FuncEvaluations: opts.maxEvals}

	fmt.Printf("CMA-ES over %d parameters, population=%d, max_evals=%d, %d seeds x %d rounds\n",
		params.Dim(), popSize, opts.maxEvals, opts.seeds, opts.rounds)

	initX := params.Normalize(params.ExtractFromConfig(baseCfg))
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := prog.best
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		return errors.New("no evaluation completed")
	}

	fmt.Printf("\n%d evaluations in %s, best fitness %.0f ticks\n",
		prog.evals, formatDuration(time.Since(prog.start)), prog.bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %-32s %.6f\n", spec.Path, best[i])
	}

	bestCfg := baseCfg.Clone()
	if err := params.ApplyToConfig(bestCfg, best); err != nil {
		return fmt.Errorf("best parameters do not validate: %w", err)
	}
	path := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(path); err != nil {
		return err
	}
	fmt.Printf("\nBest config saved to: %s\n", path)
	return nil
}

// progress logs each evaluation to CSV and stdout and keeps the best vector.
type progress struct {
	file     *os.File
	w        *csv.Writer
	maxEvals int
	start    time.Time

	evals       int
	best        []float64
	bestFitness float64
}

func newProgress(path string, params *ParamVector, maxEvals int) (*progress, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}
	p := &progress{
		file:        f,
		w:           csv.NewWriter(f),
		maxEvals:    maxEvals,
		start:       time.Now(),
		bestFitness: math.Inf(1),
	}

	header := []string{"eval", "fitness", "tag_rate", "hunt_frac"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	p.w.Write(header)
	return p, nil
}

func (p *progress) record(raw []float64, fitness, tagRate, huntFrac float64) {
	p.evals++
	if fitness < p.bestFitness {
		p.bestFitness = fitness
		p.best = raw
	}

	row := []string{
		strconv.Itoa(p.evals),
		strconv.FormatFloat(fitness, 'f', 3, 64),
		strconv.FormatFloat(tagRate, 'f', 3, 64),
		strconv.FormatFloat(huntFrac, 'f', 3, 64),
	}
	for _, v := range raw {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	p.w.Write(row)
	p.w.Flush()

	elapsed := time.Since(p.start)
	eta := time.Duration(p.maxEvals-p.evals) * (elapsed / time.Duration(p.evals))
	fmt.Printf("Eval %d/%d: ticks=%.0f tagged=%.0f%% hunt=%.2f (best=%.0f) | elapsed: %s, ETA: %s\n",
		p.evals, p.maxEvals, fitness, tagRate*100, huntFrac, p.bestFitness,
		formatDuration(elapsed), formatDuration(eta))
}

func (p *progress) close() {
	p.w.Flush()
	p.file.Close()
}

// formatDuration formats a duration as 1h02m03s, or 2m03s when under an hour.
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
