package model

// DateLayout is the calendar-day key used throughout statistics.
const DateLayout = "2006-01-02"

// DailyStat accumulates activity for one calendar day. Created lazily on
// the first recorded session of the day.
type DailyStat struct {
	Date              string `json:"date"`
	FocusTimeMinutes  int    `json:"focusTimeMinutes"`
	SessionsCompleted int    `json:"sessionsCompleted"`
}

// UserStats is the persisted statistics blob. CurrentStreak and
// LongestStreak are derived from DailyStats and recomputed on load.
type UserStats struct {
	DailyStats     []DailyStat `json:"dailyStats"`
	CurrentStreak  int         `json:"currentStreak"`
	LongestStreak  int         `json:"longestStreak"`
	TotalFocusTime int         `json:"totalFocusTime"`
	TotalSessions  int         `json:"totalSessions"`
}
