// Package config loads the JSON-encoded game and AI tuning documents a
// scenario is run with, mirroring the teacher's engine/maplib TileMap
// save/load convention (plain encoding/json, no schema library).
package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/skirmish-engine/core/core"
)

// GameConfig is the world the scenario starts from.
type GameConfig struct {
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	ResourceDensity float64 `json:"resourceDensity"`
	RockDensity     float64 `json:"rockDensity"`
	Seed            int64   `json:"seed"`
	TickRate        float64 `json:"tickRate"`
}

// Personality biases an AI player's thresholds away from the neutral
// defaults: a "turtle" leans on defense/economy, a "rusher" lowers its
// attack-group minimum size and tolerates a thinner economy.
type Personality struct {
	AggressionBias       float64 `json:"aggressionBias"`       // -1 (turtle) .. +1 (rusher)
	AttackGroupMinSize   int     `json:"attackGroupMinSize"`
	AttackGroupMaxSize   int     `json:"attackGroupMaxSize"`
	HarvesterTargetRatio float64 `json:"harvesterTargetRatio"` // harvesters per refinery
	RetreatHPRatio       float64 `json:"retreatHpRatio"`
	ReinforceHPRatio     float64 `json:"reinforceHpRatio"`
}

// DefaultPersonality is a balanced middle-of-the-road player.
func DefaultPersonality() Personality {
	return Personality{
		AggressionBias:       0,
		AttackGroupMinSize:   6,
		AttackGroupMaxSize:   16,
		HarvesterTargetRatio: 2.5,
		RetreatHPRatio:       0.3,
		ReinforceHPRatio:     0.5,
	}
}

// AIConfig is one automated player's difficulty and personality.
type AIConfig struct {
	PlayerID    int         `json:"playerId"`
	Difficulty  string      `json:"difficulty"` // "dummy" | "easy" | "medium" | "hard"
	Personality Personality `json:"personality"`
}

// ParseDifficulty maps the JSON string onto core.Difficulty, defaulting
// to medium for an unrecognized or empty value.
func ParseDifficulty(s string) core.Difficulty {
	switch s {
	case "dummy":
		return core.DifficultyDummy
	case "easy":
		return core.DifficultyEasy
	case "hard":
		return core.DifficultyHard
	default:
		return core.DifficultyMedium
	}
}

// Document is the top-level scenario file: one GameConfig plus one
// AIConfig per automated player.
type Document struct {
	Game GameConfig `json:"game"`
	AI   []AIConfig `json:"ai"`
}

// Load reads and decodes a scenario document from path.
func Load(path string) (Document, error) {
	var doc Document
	f, err := os.Open(path)
	if err != nil {
		return doc, errors.Wrapf(err, "config: open %q", path)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return doc, errors.Wrapf(err, "config: decode %q", path)
	}
	return doc, nil
}

// WorldConfig adapts the loaded GameConfig onto core.WorldConfig.
func (d Document) WorldConfig() core.WorldConfig {
	return core.WorldConfig{
		Width:           d.Game.Width,
		Height:          d.Game.Height,
		ResourceDensity: d.Game.ResourceDensity,
		RockDensity:     d.Game.RockDensity,
	}
}
