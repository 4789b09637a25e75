// Package stats accumulates per-day focus totals and derives streaks.
package stats

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"focusflow/backend/internal/model"
)

// Persister writes the stats blob through to local storage. Writes are
// best-effort; the in-memory stats stay authoritative on failure.
type Persister interface {
	SaveUserStats(stats model.UserStats) error
}

// Store is the process-wide statistics singleton. Streak fields are always
// derived from the daily entries, never trusted from the loaded blob.
type Store struct {
	mu      sync.Mutex
	stats   model.UserStats
	persist Persister
	clock   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects a time source. Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// New builds a store from a previously loaded blob and immediately
// recalculates streaks, self-healing any days missed while the app was
// closed.
func New(initial model.UserStats, persist Persister, opts ...Option) *Store {
	s := &Store{
		stats:   initial,
		persist: persist,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recalculateLocked()
	return s
}

// RecordSession adds one finished session to today's tally. Focus-type
// sessions accrue minutes; every session counts toward session totals.
func (s *Store) RecordSession(durationMinutes int, isFocusType bool) {
	s.mu.Lock()
	today := s.clock().Local().Format(model.DateLayout)

	idx := -1
	for i, d := range s.stats.DailyStats {
		if d.Date == today {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.stats.DailyStats = append(s.stats.DailyStats, model.DailyStat{Date: today})
		idx = len(s.stats.DailyStats) - 1
	}

	s.stats.DailyStats[idx].SessionsCompleted++
	s.stats.TotalSessions++
	if isFocusType {
		s.stats.DailyStats[idx].FocusTimeMinutes += durationMinutes
		s.stats.TotalFocusTime += durationMinutes
	}

	s.recalculateLocked()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.save(snapshot)
}

// Recalculate recomputes the derived streak fields. Idempotent: a second
// call with unchanged input yields unchanged output.
func (s *Store) Recalculate() {
	s.mu.Lock()
	s.recalculateLocked()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.save(snapshot)
}

// Snapshot returns a copy of the current statistics.
func (s *Store) Snapshot() model.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() model.UserStats {
	out := s.stats
	out.DailyStats = make([]model.DailyStat, len(s.stats.DailyStats))
	copy(out.DailyStats, s.stats.DailyStats)
	return out
}

func (s *Store) recalculateLocked() {
	current := currentStreak(s.stats.DailyStats, s.clock())
	s.stats.CurrentStreak = current
	if current > s.stats.LongestStreak {
		s.stats.LongestStreak = current
	}
}

func (s *Store) save(snapshot model.UserStats) {
	if s.persist == nil {
		return
	}
	if err := s.persist.SaveUserStats(snapshot); err != nil {
		slog.Warn("persist user stats failed", "error", err)
	}
}

// currentStreak counts consecutive calendar days with at least one
// completed session, ending today or yesterday. A gap of more than one
// fully skipped day breaks the streak.
func currentStreak(daily []model.DailyStat, now time.Time) int {
	if len(daily) == 0 {
		return 0
	}

	byDate := make(map[string]int, len(daily))
	dates := make([]string, 0, len(daily))
	for _, d := range daily {
		if d.SessionsCompleted > 0 {
			byDate[d.Date] = d.SessionsCompleted
			dates = append(dates, d.Date)
		}
	}
	if len(dates) == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	today := midnight(now)
	mostRecent, err := time.ParseInLocation(model.DateLayout, dates[0], now.Location())
	if err != nil {
		return 0
	}
	if daysBetween(today, mostRecent) > 1 {
		return 0
	}

	day := today
	if byDate[day.Format(model.DateLayout)] == 0 {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for byDate[day.Format(model.DateLayout)] > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func midnight(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// daysBetween counts whole calendar days from b forward to a, rounding to
// absorb daylight-saving offsets.
func daysBetween(a, b time.Time) int {
	return int(math.Round(midnight(a).Sub(midnight(b)).Hours() / 24))
}
