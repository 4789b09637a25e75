package model

// BlockType identifies one kind of timed segment within a session plan.
type BlockType string

const (
	BlockSettle BlockType = "settle"
	BlockFocus  BlockType = "focus"
	BlockBreak  BlockType = "break"
	BlockWrap   BlockType = "wrap"
)

// CountsAsFocus reports whether time spent in this block type accrues
// toward focus statistics. Breaks do not.
func (t BlockType) CountsAsFocus() bool {
	return t == BlockFocus || t == BlockSettle || t == BlockWrap
}

// Block is one fixed-duration timed segment. Immutable once created.
type Block struct {
	Type            BlockType `json:"type"`
	DurationSeconds int       `json:"durationSeconds"`
	Label           string    `json:"label,omitempty"`
}

// Mode selects how a session plan is generated.
type Mode string

const (
	ModePomodoro Mode = "pomodoro"
	ModeGuided   Mode = "guided"
	ModeCustom   Mode = "custom"
)

// Style picks the guided-mode variant.
type Style string

const (
	StylePomodoro  Style = "pomodoro_style"
	StyleDeepFocus Style = "deep_focus_style"
)

// TimerStatus is the run state of the timer engine.
type TimerStatus string

const (
	StatusIdle      TimerStatus = "idle"
	StatusRunning   TimerStatus = "running"
	StatusPaused    TimerStatus = "paused"
	StatusCompleted TimerStatus = "completed"
)

const (
	FocusBlockSeconds = 25 * 60
	BreakBlockSeconds = 5 * 60
)
