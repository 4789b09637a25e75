package announce_test

import (
	"errors"
	"testing"

	"focusflow/backend/internal/announce"
	"focusflow/backend/internal/model"
)

func TestMinuteCalloutAtFiveMinutes(t *testing.T) {
	cursor := announce.NewCursor()

	event, ok := announce.Decide(300, cursor)
	if !ok {
		t.Fatal("expected an announcement at 5:00 remaining")
	}
	if event.Kind != announce.KindMinute || event.Value != 5 {
		t.Fatalf("expected MinuteCallout(5), got %+v", event)
	}

	// Replaying the same remaining value must not announce again.
	if _, ok := announce.Decide(300, cursor); ok {
		t.Fatal("duplicate announcement for the same minute")
	}
}

func TestDingAboveTwentyFiveMinutes(t *testing.T) {
	cursor := announce.NewCursor()

	event, ok := announce.Decide(30*60, cursor)
	if !ok {
		t.Fatal("expected a ding at 30 minutes remaining")
	}
	if event.Kind != announce.KindDing {
		t.Fatalf("expected Ding, got %+v", event)
	}

	// 26 minutes: above 25 but not divisible by 5, no announcement.
	if _, ok := announce.Decide(26*60, cursor); ok {
		t.Fatal("unexpected announcement at 26 minutes")
	}
}

func TestOffBoundarySecondsAreSilent(t *testing.T) {
	cursor := announce.NewCursor()

	for _, remaining := range []int{299, 61, 55, 41, 11} {
		if event, ok := announce.Decide(remaining, cursor); ok {
			t.Fatalf("unexpected announcement %+v at %ds", event, remaining)
		}
	}
	if _, ok := announce.Decide(0, cursor); ok {
		t.Fatal("no announcement may fire at zero")
	}
}

// Walking a 3-minute block down one second at a time must announce each
// minute once, each ten-second mark once, and each final digit once.
func TestMonotonicDescentAnnouncesEachValueOnce(t *testing.T) {
	cursor := announce.NewCursor()

	minutes := map[int]int{}
	seconds := map[int]int{}
	digits := map[int]int{}

	for remaining := 180; remaining > 0; remaining-- {
		event, ok := announce.Decide(remaining, cursor)
		// Simulate tick replay at the same instant.
		if _, again := announce.Decide(remaining, cursor); again {
			t.Fatalf("replay at %ds produced a second announcement", remaining)
		}
		if !ok {
			continue
		}
		switch event.Kind {
		case announce.KindMinute:
			minutes[event.Value]++
		case announce.KindSecond:
			seconds[event.Value]++
		case announce.KindDigit:
			digits[event.Value]++
		default:
			t.Fatalf("unexpected event %+v at %ds", event, remaining)
		}
	}

	for m := 1; m <= 2; m++ {
		if minutes[m] != 1 {
			t.Errorf("minute %d announced %d times, want 1", m, minutes[m])
		}
	}
	// 180s itself is the 3-minute boundary.
	if minutes[3] != 1 {
		t.Errorf("minute 3 announced %d times, want 1", minutes[3])
	}
	for s := 10; s < 60; s += 10 {
		if seconds[s] != 1 {
			t.Errorf("second %d announced %d times, want 1", s, seconds[s])
		}
	}
	for d := 1; d <= 9; d++ {
		if digits[d] != 1 {
			t.Errorf("digit %d announced %d times, want 1", d, digits[d])
		}
	}
}

func TestCursorResetReannounces(t *testing.T) {
	cursor := announce.NewCursor()

	if _, ok := announce.Decide(120, cursor); !ok {
		t.Fatal("expected announcement at 2:00")
	}
	cursor.Reset()
	if _, ok := announce.Decide(120, cursor); !ok {
		t.Fatal("expected announcement again after cursor reset")
	}
}

type failingPlayer struct{ calls int }

func (p *failingPlayer) Play(announce.Event) error {
	p.calls++
	return errors.New("asset missing")
}

func TestDispatcherSwallowsPlaybackFailure(t *testing.T) {
	player := &failingPlayer{}
	dispatcher := announce.NewDispatcher(player)

	// Must not panic or propagate.
	dispatcher.Dispatch(announce.Transition(model.BlockFocus))
	dispatcher.Dispatch(announce.Done())

	if player.calls != 2 {
		t.Fatalf("expected 2 play attempts, got %d", player.calls)
	}
}

func TestPhrasePlayerHonorsMuting(t *testing.T) {
	player := announce.NewPhrasePlayer(model.AudioSettings{VoiceEnabled: false, ChimesEnabled: false})

	// Muted playback is still a successful no-op.
	if err := player.Play(announce.Event{Kind: announce.KindMinute, Value: 5}); err != nil {
		t.Fatalf("muted voice cue returned error: %v", err)
	}
	if err := player.Play(announce.Event{Kind: announce.KindDing}); err != nil {
		t.Fatalf("muted chime returned error: %v", err)
	}
}
