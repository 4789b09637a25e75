package stats_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"focusflow/backend/internal/model"
	"focusflow/backend/internal/stats"
)

var testNow = time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func day(offset int) string {
	return testNow.AddDate(0, 0, offset).Format(model.DateLayout)
}

func TestStreakIgnoresEntriesBeyondGap(t *testing.T) {
	initial := model.UserStats{
		DailyStats: []model.DailyStat{
			{Date: day(-3), SessionsCompleted: 2, FocusTimeMinutes: 50},
			{Date: day(-1), SessionsCompleted: 1, FocusTimeMinutes: 25},
			{Date: day(0), SessionsCompleted: 1, FocusTimeMinutes: 25},
		},
	}

	store := stats.New(initial, nil, stats.WithClock(fixedClock))

	got := store.Snapshot()
	if got.CurrentStreak != 2 {
		t.Fatalf("expected streak 2 (today+yesterday, gap before), got %d", got.CurrentStreak)
	}
	if got.LongestStreak != 2 {
		t.Fatalf("expected longest streak 2, got %d", got.LongestStreak)
	}
}

func TestStreakSurvivesNoActivityToday(t *testing.T) {
	initial := model.UserStats{
		DailyStats: []model.DailyStat{
			{Date: day(-2), SessionsCompleted: 1},
			{Date: day(-1), SessionsCompleted: 1},
		},
	}

	store := stats.New(initial, nil, stats.WithClock(fixedClock))

	if got := store.Snapshot().CurrentStreak; got != 2 {
		t.Fatalf("expected streak 2 ending yesterday, got %d", got)
	}
}

func TestStreakBreaksAfterFullySkippedDay(t *testing.T) {
	initial := model.UserStats{
		DailyStats: []model.DailyStat{
			{Date: day(-5), SessionsCompleted: 3},
			{Date: day(-4), SessionsCompleted: 2},
		},
		LongestStreak: 4,
	}

	store := stats.New(initial, nil, stats.WithClock(fixedClock))

	got := store.Snapshot()
	if got.CurrentStreak != 0 {
		t.Fatalf("expected broken streak, got %d", got.CurrentStreak)
	}
	if got.LongestStreak != 4 {
		t.Fatalf("longest streak must be preserved, got %d", got.LongestStreak)
	}
}

func TestRecalculateIsIdempotent(t *testing.T) {
	initial := model.UserStats{
		DailyStats: []model.DailyStat{
			{Date: day(-1), SessionsCompleted: 1},
			{Date: day(0), SessionsCompleted: 2},
		},
	}

	store := stats.New(initial, nil, stats.WithClock(fixedClock))
	first := store.Snapshot()
	store.Recalculate()
	second := store.Snapshot()

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("recalculate changed unchanged input: %+v vs %+v", first, second)
	}
}

func TestRecordSessionAccumulatesToday(t *testing.T) {
	store := stats.New(model.UserStats{}, nil, stats.WithClock(fixedClock))

	store.RecordSession(25, true)
	store.RecordSession(5, false)
	store.RecordSession(20, true)

	got := store.Snapshot()
	if len(got.DailyStats) != 1 {
		t.Fatalf("expected one daily entry, got %d", len(got.DailyStats))
	}
	todayStat := got.DailyStats[0]
	if todayStat.Date != day(0) {
		t.Fatalf("expected today's date, got %s", todayStat.Date)
	}
	if todayStat.FocusTimeMinutes != 45 {
		t.Fatalf("break minutes must not accrue: expected 45, got %d", todayStat.FocusTimeMinutes)
	}
	if todayStat.SessionsCompleted != 3 {
		t.Fatalf("expected 3 sessions today, got %d", todayStat.SessionsCompleted)
	}
	if got.TotalFocusTime != 45 || got.TotalSessions != 3 {
		t.Fatalf("expected totals 45/3, got %d/%d", got.TotalFocusTime, got.TotalSessions)
	}
	if got.CurrentStreak != 1 {
		t.Fatalf("expected streak 1 after first session, got %d", got.CurrentStreak)
	}
}

type failingPersister struct{ calls int }

func (p *failingPersister) SaveUserStats(model.UserStats) error {
	p.calls++
	return errors.New("disk full")
}

func TestPersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	persist := &failingPersister{}
	store := stats.New(model.UserStats{}, persist, stats.WithClock(fixedClock))

	store.RecordSession(25, true)

	if persist.calls == 0 {
		t.Fatal("expected a persistence attempt")
	}
	if got := store.Snapshot().TotalFocusTime; got != 25 {
		t.Fatalf("in-memory stats must survive persist failure, got %d", got)
	}
}
