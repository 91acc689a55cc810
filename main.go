package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/hunter/config"
	"github.com/pthm-cable/hunter/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	rounds := flag.Int("rounds", 1, "Number of rounds to play")
	inspectEvery := flag.Int("inspect-every", 0, "Log hunter components every N ticks at debug level (0 = off)")

	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		slog.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		InspectEvery:   int32(*inspectEvery),
	}

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		slog.Error("failed to start game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"rounds", *rounds,
		"max_ticks", *maxTicks,
		"hunters", cfg.Hunter.Count,
	)

	tagged := 0
	played := 0
	for played < *rounds {
		g.Step()

		if g.Phase() == game.PhaseRoundOver {
			played++
			if g.Result().Tagged {
				tagged++
			}
			if played < *rounds {
				g.ResetRound()
			}
		}

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}

	slog.Info("simulation finished",
		"rounds", played,
		"tagged", tagged,
		"ticks", g.Tick(),
	)
}
