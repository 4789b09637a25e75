package announce

import (
	"fmt"
	"log/slog"
	"sync"

	"focusflow/backend/internal/model"
)

// PhrasePlayer is the default audio collaborator. It resolves events to
// spoken phrases or chime asset names and logs the cue it would hand to
// the platform audio layer. Muting is checked here, at the collaborator
// boundary, never inside the decision logic.
type PhrasePlayer struct {
	mu       sync.RWMutex
	settings model.AudioSettings
}

// NewPhrasePlayer creates a player with the given audio settings.
func NewPhrasePlayer(settings model.AudioSettings) *PhrasePlayer {
	return &PhrasePlayer{settings: settings}
}

// UpdateSettings swaps in new audio settings for subsequent events.
func (p *PhrasePlayer) UpdateSettings(settings model.AudioSettings) {
	p.mu.Lock()
	p.settings = settings
	p.mu.Unlock()
}

// Play resolves the event to a cue and emits it. Muted events are computed
// and then dropped here.
func (p *PhrasePlayer) Play(event Event) error {
	p.mu.RLock()
	settings := p.settings
	p.mu.RUnlock()

	cue, voiced := resolveCue(event)
	if cue == "" {
		return nil
	}
	if voiced && !settings.VoiceEnabled {
		return nil
	}
	if !voiced && !settings.ChimesEnabled {
		return nil
	}

	slog.Info("audio cue", "kind", event.Kind, "cue", cue, "volume", settings.Volume)
	return nil
}

// resolveCue maps an event to its phrase or asset name. The second return
// reports whether the cue is spoken voice (as opposed to a chime).
func resolveCue(event Event) (string, bool) {
	switch event.Kind {
	case KindDing:
		return "chime/ding", false
	case KindMinute:
		if event.Value == 1 {
			return "1 minute remaining", true
		}
		return fmt.Sprintf("%d minutes remaining", event.Value), true
	case KindSecond:
		return fmt.Sprintf("%d seconds", event.Value), true
	case KindDigit:
		return fmt.Sprintf("%d", event.Value), true
	case KindTransition:
		switch event.Block {
		case model.BlockBreak:
			return "time for a break", true
		case model.BlockSettle:
			return "settle in", true
		case model.BlockWrap:
			return "wrap up", true
		default:
			return "focus time", true
		}
	case KindDone:
		return "session complete, well done", true
	default:
		return "", false
	}
}
