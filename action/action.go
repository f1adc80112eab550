// Package action defines the closed action taxonomy the reducer accepts.
// The teacher has no equivalent layer (its UI mutates the World
// directly); this is new, grounded on spec.md §6.
package action

import "github.com/skirmish-engine/core/core"

// Kind discriminates the closed set of actions the reducer understands.
// An action with an unrecognized Kind or a malformed payload for its Kind
// is treated as a no-op per spec.md §7.
type Kind uint8

const (
	Tick Kind = iota
	StartBuild
	PlaceBuilding
	CancelBuild
	CommandMove
	CommandAttack
	CommandAttackMove
	SelectUnits
	SellBuilding
	ToggleSellMode
	ToggleRepairMode
	ToggleDebug
	ToggleMinimap
	StartRepair
	StopRepair
	DeployMCV
	QueueUnit
	DequeueUnit
)

// Action is a closed sum type: a Kind tag plus typed payload fields,
// never an interface{} grab-bag, so the reducer's dispatch is exhaustive
// and payload shape is checked at compile time.
type Action struct {
	Kind Kind

	PlayerID int
	Category string // "building" | "infantry" | "vehicle" | "air"
	Key      string
	Count    int

	X, Y float64

	UnitIDs    []core.EntityID
	TargetID   core.EntityID
	BuildingID core.EntityID
	UnitID     core.EntityID
}

// Validate reports whether an action's payload is well-formed enough to
// attempt; it does not check ownership/prerequisites against GameState
// (the reducer's per-phase dispatch does that, since it needs catalog and
// player state to decide).
func Validate(a Action) bool {
	switch a.Kind {
	case Tick, SelectUnits, ToggleSellMode, ToggleRepairMode, ToggleDebug, ToggleMinimap:
		return true
	case StartBuild, CancelBuild:
		return a.Category != "" && (a.Kind == CancelBuild || a.Key != "")
	case PlaceBuilding:
		return a.Key != ""
	case CommandMove, CommandAttackMove:
		return len(a.UnitIDs) > 0
	case CommandAttack:
		return len(a.UnitIDs) > 0 && !a.TargetID.IsNil()
	case SellBuilding, StartRepair, StopRepair:
		return !a.BuildingID.IsNil()
	case DeployMCV:
		return !a.UnitID.IsNil()
	case QueueUnit, DequeueUnit:
		return a.Category != "" && a.Key != ""
	default:
		return false
	}
}
