// Package recorder turns finished timer blocks into immutable history
// entries and feeds focus time into the statistics store.
package recorder

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"focusflow/backend/internal/model"
)

// Outcome describes how a block ended.
type Outcome string

const (
	// OutcomeCompleted means the block ran to exhaustion.
	OutcomeCompleted Outcome = "completed"
	// OutcomeStopped means the user stopped or abandoned the block early.
	OutcomeStopped Outcome = "stopped"
	// OutcomeSkipped means the user skipped ahead.
	OutcomeSkipped Outcome = "skipped"
)

// HistoryPersister writes the history blob through to local storage.
type HistoryPersister interface {
	SaveHistory(records []model.SessionRecord) error
}

// StatsSink receives focus time from recorded sessions.
type StatsSink interface {
	RecordSession(durationMinutes int, isFocusType bool)
}

// Input carries everything needed to build one SessionRecord.
type Input struct {
	StartedAt       time.Time
	Mode            model.Mode
	TimerType       string
	Block           model.Block
	RemainingAtStop int
	Outcome         Outcome
	Draft           *model.SessionDraft
	Note            string
}

// Recorder owns the bounded session history, newest first.
type Recorder struct {
	mu      sync.Mutex
	history []model.SessionRecord
	stats   StatsSink
	persist HistoryPersister
	clock   func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock injects a time source. Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(r *Recorder) { r.clock = clock }
}

// New builds a recorder seeded with previously loaded history.
func New(initial []model.SessionRecord, stats StatsSink, persist HistoryPersister, opts ...Option) *Recorder {
	r := &Recorder{
		history: append([]model.SessionRecord(nil), initial...),
		stats:   stats,
		persist: persist,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if len(r.history) > model.HistoryLimit {
		r.history = r.history[:model.HistoryLimit]
	}
	return r
}

// Record builds a SessionRecord, appends it to history (evicting beyond
// the cap), and forwards focus-type time to the statistics store.
func (r *Recorder) Record(in Input) model.SessionRecord {
	now := r.clock()

	planned := in.Block.DurationSeconds
	completed := planned
	if in.Outcome != OutcomeCompleted {
		completed = planned - in.RemainingAtStop
	}
	if completed < 0 {
		completed = 0
	}
	if completed > planned {
		completed = planned
	}

	status := model.SessionPartial
	switch {
	case in.Outcome == OutcomeCompleted:
		status = model.SessionCompleted
	case in.Outcome == OutcomeSkipped && completed == 0:
		status = model.SessionSkipped
	}

	startedAt := in.StartedAt
	if startedAt.IsZero() {
		startedAt = now.Add(-time.Duration(completed) * time.Second)
	}

	record := model.SessionRecord{
		ID:               uuid.NewString(),
		StartedAt:        startedAt,
		EndedAt:          now,
		PlannedSeconds:   planned,
		CompletedSeconds: completed,
		Mode:             in.Mode,
		TimerType:        in.TimerType,
		BlockType:        in.Block.Type,
		Status:           status,
		Note:             in.Note,
	}
	if in.Draft != nil {
		record.Intent = in.Draft.Intent
		done := 0
		for _, step := range in.Draft.Steps {
			if step.Done {
				done++
			}
		}
		record.Steps = &model.StepSummary{Total: len(in.Draft.Steps), Done: done}
	}

	r.mu.Lock()
	r.history = append([]model.SessionRecord{record}, r.history...)
	if len(r.history) > model.HistoryLimit {
		r.history = r.history[:model.HistoryLimit]
	}
	snapshot := make([]model.SessionRecord, len(r.history))
	copy(snapshot, r.history)
	r.mu.Unlock()

	// Breaks never reach the statistics store; skips carry no focus time.
	if r.stats != nil && in.Block.Type.CountsAsFocus() && status != model.SessionSkipped {
		r.stats.RecordSession(completed/60, true)
	}

	if r.persist != nil {
		if err := r.persist.SaveHistory(snapshot); err != nil {
			slog.Warn("persist session history failed", "error", err)
		}
	}

	return record
}

// History returns a copy of the history, newest first.
func (r *Recorder) History() []model.SessionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.SessionRecord, len(r.history))
	copy(out, r.history)
	return out
}

// GroupByDay partitions records by the local calendar date of StartedAt,
// newest day first. Pure; recomputed on demand, never persisted.
func GroupByDay(records []model.SessionRecord) []model.DailySummary {
	byDate := make(map[string]*model.DailySummary)
	for _, record := range records {
		date := record.StartedAt.Local().Format(model.DateLayout)
		summary, ok := byDate[date]
		if !ok {
			summary = &model.DailySummary{Date: date}
			byDate[date] = summary
		}
		switch record.Status {
		case model.SessionCompleted:
			summary.Completed++
		case model.SessionPartial:
			summary.Partial++
		case model.SessionSkipped:
			summary.Skipped++
		}
		if record.BlockType.CountsAsFocus() {
			summary.FocusMinutes += record.CompletedSeconds / 60
		}
	}

	out := make([]model.DailySummary, 0, len(byDate))
	for _, summary := range byDate {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}
