package announce

import "log/slog"

// Player resolves an announcement event to an actual sound or spoken
// phrase. Implementations own muting decisions; the dispatcher always
// forwards every event.
type Player interface {
	Play(event Event) error
}

// Dispatcher forwards events to a Player and swallows playback failures so
// a missing or blocked audio asset can never stall the tick loop.
type Dispatcher struct {
	player Player
}

// NewDispatcher wires a dispatcher to a player. A nil player disables
// playback entirely.
func NewDispatcher(player Player) *Dispatcher {
	return &Dispatcher{player: player}
}

// Dispatch plays the event, logging and discarding any error.
func (d *Dispatcher) Dispatch(event Event) {
	if d == nil || d.player == nil {
		return
	}
	if err := d.player.Play(event); err != nil {
		slog.Warn("announcement playback failed", "kind", event.Kind, "value", event.Value, "error", err)
	}
}
