// Package game wires hunters, obstacles and the scripted player into an ECS
// world and drives rounds at a fixed tick rate.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hunter/components"
	"github.com/pthm-cable/hunter/config"
	"github.com/pthm-cable/hunter/inspector"
	"github.com/pthm-cable/hunter/perception"
	"github.com/pthm-cable/hunter/systems"
	"github.com/pthm-cable/hunter/telemetry"
)

// Phase is the round lifecycle.
type Phase uint8

const (
	PhasePlaying Phase = iota
	PhaseRoundOver
)

func (p Phase) String() string {
	if p == PhaseRoundOver {
		return "round_over"
	}
	return "playing"
}

// maxStepsPerAdvance bounds catch-up work after a long frame.
const maxStepsPerAdvance = 8

// Options configures a game instance.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 uses the config value
	OutputDir      string  // Empty disables CSV output
	InspectEvery   int32   // Log hunter components every N ticks, 0 disables
	StatsCallback  func(telemetry.WindowStats)
}

// RoundResult summarises a finished round.
type RoundResult struct {
	Round    int
	Tagged   bool
	Ticks    int32
	Seconds  float64
	HunterID uint32 // Tagging hunter, valid when Tagged
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand

	hunterMap    *ecs.Map2[components.Identity, components.Agent]
	hunterFilter *ecs.Filter2[components.Identity, components.Agent]
	obstacleMap  *ecs.Map1[components.Obstacle]

	obstacles *systems.ObstacleCollector
	index     *systems.ObstacleIndex
	brain     *systems.Brain
	hunters   *systems.HunterSystem
	player    *Player
	inspector *inspector.Inspector

	// State
	tick        int32
	roundTick   int32
	round       int
	phase       Phase
	accumulator float64
	nextIndex   uint32
	result      RoundResult

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// NewGameWithOptions creates a game, spawns the arena and starts round one.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))

	g := &Game{
		cfg:           cfg,
		world:         world,
		rng:           rng,
		hunterMap:     ecs.NewMap2[components.Identity, components.Agent](world),
		hunterFilter:  ecs.NewFilter2[components.Identity, components.Agent](world),
		obstacleMap:   ecs.NewMap1[components.Obstacle](world),
		obstacles:     systems.NewObstacleCollector(world),
		player:        NewPlayer(cfg),
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Physics.DT)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if opts.InspectEvery > 0 {
		g.inspector = inspector.NewInspector(slog.Default(), opts.InspectEvery)
	}

	if err := g.spawnObstacles(); err != nil {
		om.Close()
		return nil, err
	}

	g.brain = systems.NewBrain(systems.BrainParamsFrom(cfg), rng, g.recordEvent)
	locator := &playerLocator{player: g.player, hearing: perception.HearingParamsFrom(cfg)}
	g.hunters = systems.NewHunterSystem(world, g.brain, locator, cfg.Physics.DT)

	g.ResetRound()
	return g, nil
}

// spawnObstacles creates one entity per configured obstacle and indexes them.
func (g *Game) spawnObstacles() error {
	for _, oc := range g.cfg.Arena.Obstacles {
		o := components.Obstacle{
			Position:  components.Vec2{X: oc.X, Z: oc.Z},
			HalfWidth: oc.HalfWidth,
			HalfDepth: oc.HalfDepth,
		}
		g.obstacleMap.NewEntity(&o)
	}
	return g.rebuildIndex()
}

// AddObstacle places a new obstacle and rebuilds the index.
func (g *Game) AddObstacle(o components.Obstacle) (ecs.Entity, error) {
	e := g.obstacleMap.NewEntity(&o)
	if err := g.rebuildIndex(); err != nil {
		g.world.RemoveEntity(e)
		if rerr := g.rebuildIndex(); rerr != nil {
			return ecs.Entity{}, rerr
		}
		return ecs.Entity{}, err
	}
	return e, nil
}

func (g *Game) rebuildIndex() error {
	idx, err := g.obstacles.Index()
	if err != nil {
		return fmt.Errorf("indexing obstacles: %w", err)
	}
	g.index = idx
	return nil
}

// SpawnHunter adds a patrolling hunter.
func (g *Game) SpawnHunter(pos components.Vec2, heading float64) ecs.Entity {
	id := components.NewIdentity(g.nextIndex)
	g.nextIndex++
	agent := components.NewAgent(g.cfg, pos, heading)
	return g.hunterMap.NewEntity(&id, &agent)
}

// RemoveHunter deletes a hunter. It reports false if the entity is gone.
func (g *Game) RemoveHunter(e ecs.Entity) bool {
	if !g.world.Alive(e) || !g.hunterMap.HasAll(e) {
		return false
	}
	g.world.RemoveEntity(e)
	return true
}

// HunterEntities lists live hunters in query order.
func (g *Game) HunterEntities() []ecs.Entity {
	var out []ecs.Entity
	query := g.hunterFilter.Query()
	for query.Next() {
		out = append(out, query.Entity())
	}
	return out
}

// Hunter returns a hunter's components for reading or modification.
func (g *Game) Hunter(e ecs.Entity) (*components.Identity, *components.Agent) {
	return g.hunterMap.Get(e)
}

// ResetRound clears all hunters, respawns them and the player, and starts a
// new round.
func (g *Game) ResetRound() {
	for _, e := range g.HunterEntities() {
		g.world.RemoveEntity(e)
	}

	h := g.cfg.Hunter
	spawn := components.Vec2{X: h.Spawn[0], Z: h.Spawn[1]}
	for i := 0; i < h.Count; i++ {
		offset := (float64(i) - float64(h.Count-1)/2) * 1.5
		g.SpawnHunter(spawn.Add(components.Vec2{X: offset}), 0)
	}

	g.player.Reset()
	g.round++
	g.roundTick = 0
	g.accumulator = 0
	g.phase = PhasePlaying
	g.result = RoundResult{Round: g.round}

	slog.Info("round started", "round", g.round, "hunters", h.Count, "obstacles", len(g.index.Obstacles()))
}

// Advance consumes frameSeconds of wall time in fixed ticks and returns how
// many ran. Leftover time carries to the next call.
func (g *Game) Advance(frameSeconds float64) int {
	dt := g.cfg.Physics.DT
	g.accumulator += frameSeconds

	steps := 0
	for g.accumulator >= dt && g.phase == PhasePlaying {
		if steps == maxStepsPerAdvance {
			// Drop the backlog rather than spiral
			g.accumulator = 0
			break
		}
		g.Step()
		g.accumulator -= dt
		steps++
	}
	return steps
}

// Step runs one fixed tick. It does nothing once the round is over.
func (g *Game) Step() {
	if g.phase != PhasePlaying {
		return
	}

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhasePlayer)
	g.player.Update(g.rng)

	g.perfCollector.StartPhase(telemetry.PhaseHunters)
	g.hunters.Update(g.tick, g.index)

	g.perfCollector.StartPhase(telemetry.PhaseTagging)
	tagger, tagged := g.checkTags()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.sampleHunters()
	g.flushTelemetry()
	g.inspectHunters()

	g.perfCollector.EndTick()

	g.tick++
	g.roundTick++

	switch {
	case tagged:
		g.endRound(true, tagger)
	case g.cfg.Derived.RoundTicks > 0 && g.roundTick >= g.cfg.Derived.RoundTicks:
		g.endRound(false, 0)
	}
}

// checkTags marks the player caught when any hunter is within tag distance
// and reports the first such hunter.
func (g *Game) checkTags() (uint32, bool) {
	if g.player.Caught {
		return 0, false
	}
	reach := g.cfg.States.TagDistance
	query := g.hunterFilter.Query()
	var tagger uint32
	for query.Next() {
		id, a := query.Get()
		if g.player.Caught || a.Position.Dist(g.player.Position) > reach {
			continue
		}
		g.player.Caught = true
		tagger = id.Index
		g.recordEvent(telemetry.NewTaggedEvent(g.tick, id.Index, g.player.Position))
	}
	return tagger, g.player.Caught
}

func (g *Game) endRound(tagged bool, hunter uint32) {
	g.phase = PhaseRoundOver
	g.result = RoundResult{
		Round:    g.round,
		Tagged:   tagged,
		Ticks:    g.roundTick,
		Seconds:  float64(g.roundTick) * g.cfg.Physics.DT,
		HunterID: hunter,
	}
	logRoundResult(g.result)
	// Close the window so the end of the round is reported with it
	if g.collector.Pending() {
		g.emitWindow()
	}
	if err := g.outputManager.WriteRound(g.result.Record()); err != nil {
		slog.Error("failed to write round", "error", err)
	}
}

// Tick returns the total number of ticks run.
func (g *Game) Tick() int32 { return g.tick }

// Phase returns the round phase.
func (g *Game) Phase() Phase { return g.phase }

// Result returns the latest round's outcome.
func (g *Game) Result() RoundResult { return g.result }

// Player returns the scripted player.
func (g *Game) Player() *Player { return g.player }

// World returns the obstacle view hunters query.
func (g *Game) World() systems.WorldView { return g.index }

// Unload flushes and closes output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
