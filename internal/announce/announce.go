// Package announce derives voice and chime cues from countdown progress.
// The decision logic is pure; playback goes through a Player collaborator
// and is strictly best-effort.
package announce

import "focusflow/backend/internal/model"

// Kind discriminates announcement events.
type Kind string

const (
	KindDing       Kind = "ding"
	KindMinute     Kind = "minute"
	KindSecond     Kind = "second"
	KindDigit      Kind = "digit"
	KindTransition Kind = "transition"
	KindDone       Kind = "done"
)

// Event is one announcement to be resolved to a sound or phrase by the
// audio collaborator. Value carries the minute or second count for the
// callout kinds; Block carries the upcoming block type for transitions.
type Event struct {
	Kind  Kind
	Value int
	Block model.BlockType
}

const none = -1

// Cursor remembers the last announced minute and second so that each
// distinct cue fires at most once per block run. Reset on block start, on
// manual time adjustment, and on resume from pause.
type Cursor struct {
	lastMinute int
	lastSecond int
}

// NewCursor returns a cursor with no announcements recorded.
func NewCursor() *Cursor {
	return &Cursor{lastMinute: none, lastSecond: none}
}

// Reset forgets all prior announcements.
func (c *Cursor) Reset() {
	c.lastMinute = none
	c.lastSecond = none
}

// Decide returns the announcement due at the given remaining time, if any,
// and records it in the cursor. Rules, in precedence order:
//
//	>= 60s: only on exact minute boundaries; minutes above 25 that divide
//	        by 5 ding, minutes at or below 25 get a voice callout.
//	10..59s: every 10-second boundary gets a second callout.
//	1..9s:  every distinct value gets a digit callout.
func Decide(remainingSeconds int, c *Cursor) (Event, bool) {
	if remainingSeconds <= 0 {
		return Event{}, false
	}

	if remainingSeconds >= 60 {
		if remainingSeconds%60 != 0 {
			return Event{}, false
		}
		minutes := remainingSeconds / 60
		if minutes == c.lastMinute {
			return Event{}, false
		}
		c.lastMinute = minutes
		if minutes > 25 {
			if minutes%5 == 0 {
				return Event{Kind: KindDing, Value: minutes}, true
			}
			return Event{}, false
		}
		return Event{Kind: KindMinute, Value: minutes}, true
	}

	if remainingSeconds >= 10 {
		if remainingSeconds%10 != 0 || remainingSeconds == c.lastSecond {
			return Event{}, false
		}
		c.lastSecond = remainingSeconds
		return Event{Kind: KindSecond, Value: remainingSeconds}, true
	}

	if remainingSeconds == c.lastSecond {
		return Event{}, false
	}
	c.lastSecond = remainingSeconds
	return Event{Kind: KindDigit, Value: remainingSeconds}, true
}

// Transition builds the callout announcing the next block before it starts.
func Transition(next model.BlockType) Event {
	return Event{Kind: KindTransition, Block: next}
}

// Done builds the all-complete callout.
func Done() Event {
	return Event{Kind: KindDone}
}
