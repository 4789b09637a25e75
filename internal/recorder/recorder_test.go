package recorder_test

import (
	"fmt"
	"testing"
	"time"

	"focusflow/backend/internal/model"
	"focusflow/backend/internal/recorder"
)

var testNow = time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)

type statsSpy struct {
	minutes []int
	focus   []bool
}

func (s *statsSpy) RecordSession(minutes int, isFocus bool) {
	s.minutes = append(s.minutes, minutes)
	s.focus = append(s.focus, isFocus)
}

func focusBlock(seconds int) model.Block {
	return model.Block{Type: model.BlockFocus, DurationSeconds: seconds}
}

func TestCompletedBlockGetsFullCredit(t *testing.T) {
	spy := &statsSpy{}
	r := recorder.New(nil, spy, nil, recorder.WithClock(func() time.Time { return testNow }))

	record := r.Record(recorder.Input{
		Mode:    model.ModePomodoro,
		Block:   focusBlock(1500),
		Outcome: recorder.OutcomeCompleted,
	})

	if record.Status != model.SessionCompleted {
		t.Fatalf("expected completed, got %s", record.Status)
	}
	if record.CompletedSeconds != 1500 {
		t.Fatalf("expected 1500s credit, got %d", record.CompletedSeconds)
	}
	if len(spy.minutes) != 1 || spy.minutes[0] != 25 {
		t.Fatalf("expected 25 focus minutes forwarded, got %v", spy.minutes)
	}
}

func TestEarlyStopIsPartial(t *testing.T) {
	r := recorder.New(nil, nil, nil, recorder.WithClock(func() time.Time { return testNow }))

	record := r.Record(recorder.Input{
		Block:           focusBlock(1500),
		RemainingAtStop: 900,
		Outcome:         recorder.OutcomeStopped,
	})

	if record.Status != model.SessionPartial {
		t.Fatalf("expected partial, got %s", record.Status)
	}
	if record.CompletedSeconds != 600 {
		t.Fatalf("expected 600s elapsed, got %d", record.CompletedSeconds)
	}
}

func TestImmediateSkipIsSkipped(t *testing.T) {
	spy := &statsSpy{}
	r := recorder.New(nil, spy, nil, recorder.WithClock(func() time.Time { return testNow }))

	record := r.Record(recorder.Input{
		Block:           focusBlock(1500),
		RemainingAtStop: 1500,
		Outcome:         recorder.OutcomeSkipped,
	})

	if record.Status != model.SessionSkipped {
		t.Fatalf("expected skipped, got %s", record.Status)
	}
	if len(spy.minutes) != 0 {
		t.Fatalf("skips must not reach the statistics store, got %v", spy.minutes)
	}
}

func TestSkipWithElapsedTimeIsPartial(t *testing.T) {
	r := recorder.New(nil, nil, nil, recorder.WithClock(func() time.Time { return testNow }))

	record := r.Record(recorder.Input{
		Block:           focusBlock(1500),
		RemainingAtStop: 1200,
		Outcome:         recorder.OutcomeSkipped,
	})

	if record.Status != model.SessionPartial {
		t.Fatalf("skip with elapsed time must be partial, got %s", record.Status)
	}
	if record.CompletedSeconds != 300 {
		t.Fatalf("expected 300s elapsed, got %d", record.CompletedSeconds)
	}
}

func TestBreaksNeverReachStats(t *testing.T) {
	spy := &statsSpy{}
	r := recorder.New(nil, spy, nil, recorder.WithClock(func() time.Time { return testNow }))

	r.Record(recorder.Input{
		Block:   model.Block{Type: model.BlockBreak, DurationSeconds: 300},
		Outcome: recorder.OutcomeCompleted,
	})

	if len(spy.minutes) != 0 {
		t.Fatalf("break blocks must not be forwarded, got %v", spy.minutes)
	}
}

func TestDraftFoldsIntoRecord(t *testing.T) {
	r := recorder.New(nil, nil, nil, recorder.WithClock(func() time.Time { return testNow }))

	record := r.Record(recorder.Input{
		Block:   focusBlock(1500),
		Outcome: recorder.OutcomeCompleted,
		Draft: &model.SessionDraft{
			Intent: "finish the report",
			Steps: []model.PrepStep{
				{Text: "close slack", Done: true},
				{Text: "open draft", Done: true},
				{Text: "water", Done: false},
			},
		},
		Note: "went well",
	})

	if record.Intent != "finish the report" {
		t.Fatalf("expected intent carried over, got %q", record.Intent)
	}
	if record.Steps == nil || record.Steps.Total != 3 || record.Steps.Done != 2 {
		t.Fatalf("expected steps 2/3, got %+v", record.Steps)
	}
	if record.Note != "went well" {
		t.Fatalf("expected note carried over, got %q", record.Note)
	}
}

func TestHistoryEvictsBeyondThirty(t *testing.T) {
	clock := testNow
	r := recorder.New(nil, nil, nil, recorder.WithClock(func() time.Time { return clock }))

	var firstID string
	for i := 0; i < 31; i++ {
		record := r.Record(recorder.Input{
			Block:   focusBlock(60),
			Outcome: recorder.OutcomeCompleted,
			Note:    fmt.Sprintf("entry %d", i),
		})
		if i == 0 {
			firstID = record.ID
		}
		clock = clock.Add(time.Minute)
	}

	history := r.History()
	if len(history) != 30 {
		t.Fatalf("expected exactly 30 entries, got %d", len(history))
	}
	if history[0].Note != "entry 30" {
		t.Fatalf("expected newest entry first, got %q", history[0].Note)
	}
	for _, record := range history {
		if record.ID == firstID {
			t.Fatal("oldest entry must have been evicted")
		}
	}
}

func TestGroupByDayNewestFirst(t *testing.T) {
	today := testNow
	yesterday := testNow.AddDate(0, 0, -1)

	records := []model.SessionRecord{
		{StartedAt: today, BlockType: model.BlockFocus, Status: model.SessionCompleted, CompletedSeconds: 1500},
		{StartedAt: today, BlockType: model.BlockBreak, Status: model.SessionCompleted, CompletedSeconds: 300},
		{StartedAt: yesterday, BlockType: model.BlockFocus, Status: model.SessionPartial, CompletedSeconds: 600},
		{StartedAt: yesterday, BlockType: model.BlockFocus, Status: model.SessionSkipped, CompletedSeconds: 0},
	}

	days := recorder.GroupByDay(records)
	if len(days) != 2 {
		t.Fatalf("expected 2 day groups, got %d", len(days))
	}
	if days[0].Date != today.Format(model.DateLayout) {
		t.Fatalf("expected today first, got %s", days[0].Date)
	}
	if days[0].Completed != 2 || days[0].FocusMinutes != 25 {
		t.Fatalf("today: expected 2 completed / 25 focus minutes, got %d/%d", days[0].Completed, days[0].FocusMinutes)
	}
	if days[1].Partial != 1 || days[1].Skipped != 1 || days[1].FocusMinutes != 10 {
		t.Fatalf("yesterday: expected 1 partial, 1 skipped, 10 minutes, got %+v", days[1])
	}
}
