package reducer

import "github.com/skirmish-engine/core/core"

// phaseElimination marks every already-eliminated player's remaining
// entities dead and evaluates the win condition, per spec.md §4.3 phase
// 11. A player with zero buildings and zero MCVs is eliminated; once at
// most one player has anything left, the match ends.
func phaseElimination(state *core.GameState, ctx *Context) {
	for _, p := range state.Players {
		if !isEliminated(state, p.ID) {
			continue
		}
		for _, e := range state.Entities.All() {
			if !e.Dead && e.Owner == p.ID {
				e.Dead = true
			}
		}
	}

	remaining := map[int]bool{}
	for _, e := range state.Entities.All() {
		if e.Dead || e.Owner < 0 {
			continue
		}
		remaining[e.Owner] = true
	}

	alive := 0
	var lastAlive int
	for _, p := range state.Players {
		if remaining[p.ID] {
			alive++
			lastAlive = p.ID
		}
	}

	if alive <= 1 && state.Winner == nil {
		w := -1
		if alive == 1 {
			w = lastAlive
		}
		state.Winner = &w
		state.Running = false
	}
}

// phaseCameraShakeDecay counts down any active camera shake, per spec.md
// §4.3 phase 12.
func phaseCameraShakeDecay(state *core.GameState) {
	if state.Camera.ShakeDuration <= 0 {
		return
	}
	state.Camera.ShakeDuration--
	if state.Camera.ShakeDuration <= 0 {
		state.Camera.ShakeIntensity = 0
	}
}
