// Command simulate is a headless driver for the deterministic match
// reducer: it loads a config document, spawns each player's starting
// base, and advances the tick loop for a fixed number of ticks, printing
// structured log lines and the eventual winner. Grounded on
// cmd/game/main.go's NewGame/spawnInitialEntities/Update, stripped of
// ebiten, input, rendering, and audio — this driver has no window and no
// human player, only AI planners and the pure reducer.
package main

import (
	"flag"
	"fmt"

	"github.com/skirmish-engine/core/action"
	"github.com/skirmish-engine/core/ai"
	"github.com/skirmish-engine/core/config"
	"github.com/skirmish-engine/core/core"
	"github.com/skirmish-engine/core/logging"
	"github.com/skirmish-engine/core/reducer"
	"github.com/skirmish-engine/core/rules"
)

func main() {
	configPath := flag.String("config", "", "path to a match config JSON document (optional)")
	ticks := flag.Int("ticks", 6000, "number of ticks to simulate")
	logLevel := flag.String("log-level", "info", "logrus level: debug, info, warn, error")
	catalogPath := flag.String("catalog", "", "optional JSON rules catalog path (defaults to the built-in catalog)")
	flag.Parse()

	log := logging.New(*logLevel)

	var doc config.Document
	if *configPath != "" {
		d, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		doc = d
	} else {
		doc = defaultDocument()
	}

	var catalog rules.Catalog
	if *catalogPath != "" {
		c, err := rules.Load(*catalogPath)
		if err != nil {
			log.Fatalf("loading catalog: %v", err)
		}
		catalog = c
	} else {
		catalog = rules.Default()
	}

	events := core.NewEventBus()
	cfg := doc.WorldConfig()
	ctx := reducer.NewContext(catalog, doc.Game.Seed, cfg, events)

	state := newMatch(doc, catalog, ctx)

	planners := make(map[int]*ai.Planner, len(doc.AI))
	for _, aiCfg := range doc.AI {
		planners[aiCfg.PlayerID] = ai.NewPlanner(aiCfg.PlayerID, config.ParseDifficulty(aiCfg.Difficulty), aiCfg.Personality)
	}

	for i := 0; i < *ticks; i++ {
		if !state.Running || state.Winner != nil {
			break
		}

		var actions []action.Action
		for _, p := range planners {
			actions = append(actions, p.Think(state, catalog, log)...)
		}

		state = reducer.Tick(state, actions, ctx)
		logging.Tick(log, state.Tick, len(actions))

		if state.Notification != nil && state.Notification.Tick == state.Tick {
			logging.Notification(log, state.Tick, state.Notification.Text)
		}
	}

	if state.Winner != nil {
		logging.Winner(log, state.Tick, *state.Winner)
		fmt.Printf("match ended at tick %d, winner: %d\n", state.Tick, *state.Winner)
		return
	}
	fmt.Printf("match reached tick %d with no winner decided\n", state.Tick)
}

// defaultDocument is used when no -config flag is given: a two-player
// skirmish, one human-equivalent seat (AI-controlled at medium difficulty
// for a fully headless run) against a hard-difficulty opponent.
func defaultDocument() config.Document {
	return config.Document{
		Game: config.GameConfig{
			Width: 2048, Height: 2048,
			ResourceDensity: 0.02,
			RockDensity:     0.01,
			Seed:            1,
			TickRate:        20,
		},
		AI: []config.AIConfig{
			{PlayerID: 0, Difficulty: "medium", Personality: config.DefaultPersonality()},
			{PlayerID: 1, Difficulty: "hard", Personality: config.DefaultPersonality()},
		},
	}
}

const startingCredits = 10000

// newMatch builds the initial GameState: one construction yard, power
// plant, barracks, refinery, a starting squad, and a harvester per
// player, mirroring cmd/game/main.go's spawnInitialEntities but
// data-driven off the rules catalog instead of hardcoded components, and
// placed at opposite corners of the configured map.
func newMatch(doc config.Document, catalog rules.Catalog, ctx *reducer.Context) *core.GameState {
	cfg := doc.WorldConfig()
	state := &core.GameState{
		Running: true,
		Mode:    core.ModePlaying,
		Entities: core.NewEntityStore(),
		Config:  cfg,
	}

	corners := []core.Vector{
		{X: cfg.Width * 0.15, Y: cfg.Height * 0.15},
		{X: cfg.Width * 0.85, Y: cfg.Height * 0.85},
		{X: cfg.Width * 0.85, Y: cfg.Height * 0.15},
		{X: cfg.Width * 0.15, Y: cfg.Height * 0.85},
	}

	for i, aiCfg := range doc.AI {
		isAI := aiCfg.Difficulty != "" && aiCfg.Difficulty != "none"
		player := reducer.NewPlayerState(aiCfg.PlayerID, isAI, config.ParseDifficulty(aiCfg.Difficulty), 0, startingCredits)
		state.Players = append(state.Players, player)

		base := corners[i%len(corners)]
		spawnStartingBase(state, ctx, aiCfg.PlayerID, base)
	}

	return state
}

func spawnStartingBase(state *core.GameState, ctx *reducer.Context, playerID int, base core.Vector) {
	reducer.SpawnBuilding(state, ctx, playerID, "construction_yard", base)
	reducer.SpawnBuilding(state, ctx, playerID, "power_plant", base.Add(core.Vector{X: 120, Y: 0}))
	reducer.SpawnBuilding(state, ctx, playerID, "barracks", base.Add(core.Vector{X: 0, Y: 120}))
	reducer.SpawnBuilding(state, ctx, playerID, "refinery", base.Add(core.Vector{X: 120, Y: 120}))

	for i := 0; i < 5; i++ {
		pos := base.Add(core.Vector{X: float64(i) * 32, Y: 180})
		reducer.SpawnStartingUnit(state, ctx, playerID, "rifleman", pos)
	}
	reducer.SpawnStartingUnit(state, ctx, playerID, "harvester", base.Add(core.Vector{X: 160, Y: 160}))
}
