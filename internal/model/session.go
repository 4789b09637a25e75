package model

import "time"

// SessionStatus describes how a recorded block ended.
type SessionStatus string

const (
	SessionCompleted SessionStatus = "completed"
	SessionPartial   SessionStatus = "partial"
	SessionSkipped   SessionStatus = "skipped"
)

const (
	// HistoryLimit caps the session history; older entries are evicted.
	HistoryLimit = 30

	MaxIntentLength   = 80
	MaxPrepSteps      = 5
	MaxPrepStepLength = 60
)

// PrepStep is one preparation checklist item attached to a session draft.
type PrepStep struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// SessionDraft holds the intent and prep steps captured before a focus
// session starts. It lives for one session and is folded into the
// resulting SessionRecord.
type SessionDraft struct {
	Intent string     `json:"intent"`
	Steps  []PrepStep `json:"steps"`
}

// StepSummary condenses a draft's checklist into counts for the record.
type StepSummary struct {
	Total int `json:"total"`
	Done  int `json:"done"`
}

// SessionRecord is an immutable history entry for one finished block.
type SessionRecord struct {
	ID               string        `json:"id"`
	StartedAt        time.Time     `json:"startedAt"`
	EndedAt          time.Time     `json:"endedAt"`
	PlannedSeconds   int           `json:"plannedSeconds"`
	CompletedSeconds int           `json:"completedSeconds"`
	Mode             Mode          `json:"mode"`
	TimerType        string        `json:"timerType"`
	BlockType        BlockType     `json:"blockType"`
	Status           SessionStatus `json:"status"`
	Intent           string        `json:"intent,omitempty"`
	Steps            *StepSummary  `json:"steps,omitempty"`
	Note             string        `json:"note,omitempty"`
}

// DailySummary aggregates one calendar day of session history.
type DailySummary struct {
	Date         string `json:"date"`
	Completed    int    `json:"completed"`
	Partial      int    `json:"partial"`
	Skipped      int    `json:"skipped"`
	FocusMinutes int    `json:"focusMinutes"`
}
