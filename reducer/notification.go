package reducer

import "github.com/skirmish-engine/core/core"

const notificationWindowTicks = 180

// phaseNotificationDecay clears a stale notification. Spec.md §4.3 phase 1.
func phaseNotificationDecay(state *core.GameState) {
	if state.Notification == nil {
		return
	}
	if state.Tick-state.Notification.Tick > notificationWindowTicks {
		state.Notification = nil
	}
}
