// Package plan generates the ordered block sequence for one timer run.
// Generation is pure: no state, no clock.
package plan

import "focusflow/backend/internal/model"

// Generate maps a (mode, duration, style) triple to an ordered block list.
// Durations are whole minutes; non-positive values are the caller's
// responsibility to reject. Guided mode with an unknown duration yields an
// empty plan.
func Generate(mode model.Mode, totalMinutes int, style model.Style) []model.Block {
	switch mode {
	case model.ModePomodoro:
		return pomodoroPlan(totalMinutes)
	case model.ModeGuided:
		return guidedPlan(totalMinutes, style)
	case model.ModeCustom:
		return customPlan(totalMinutes)
	default:
		return nil
	}
}

// TotalSeconds sums the durations of a plan.
func TotalSeconds(blocks []model.Block) int {
	total := 0
	for _, b := range blocks {
		total += b.DurationSeconds
	}
	return total
}

// pomodoroPlan emits floor((total+5)/30) focus blocks of 25 minutes with a
// 5-minute break before every focus block except the first. The UI offers
// 25/55/85/145 minute presets, but the formula holds for any positive
// duration.
func pomodoroPlan(totalMinutes int) []model.Block {
	pomodoros := (totalMinutes + 5) / 30
	if pomodoros <= 0 {
		return nil
	}

	blocks := make([]model.Block, 0, pomodoros*2-1)
	for i := 0; i < pomodoros; i++ {
		if i > 0 {
			blocks = append(blocks, breakBlock(5))
		}
		blocks = append(blocks, focusBlock(25, "Focus"))
	}
	return blocks
}

// customPlan is a single uninterrupted focus block.
func customPlan(totalMinutes int) []model.Block {
	if totalMinutes <= 0 {
		return nil
	}
	return []model.Block{focusBlock(totalMinutes, "Focus")}
}

// guidedPlan looks up a hand-authored sequence for the duration and style.
// Every entry sums to its key so the countdown ends exactly on the chosen
// total.
func guidedPlan(totalMinutes int, style model.Style) []model.Block {
	table := guidedPomodoroStyle
	if style == model.StyleDeepFocus {
		table = guidedDeepFocusStyle
	}
	entry, ok := table[totalMinutes]
	if !ok {
		return []model.Block{}
	}
	blocks := make([]model.Block, len(entry))
	copy(blocks, entry)
	return blocks
}

var guidedPomodoroStyle = map[int][]model.Block{
	30: {
		settleBlock(3),
		focusBlock(22, "Deep focus"),
		wrapBlock(5),
	},
	60: {
		settleBlock(5),
		focusBlock(25, "Deep focus"),
		breakBlock(5),
		focusBlock(20, "Deep focus"),
		wrapBlock(5),
	},
	90: {
		settleBlock(5),
		focusBlock(25, "Deep focus"),
		breakBlock(5),
		focusBlock(25, "Deep focus"),
		breakBlock(5),
		focusBlock(20, "Deep focus"),
		wrapBlock(5),
	},
	120: {
		settleBlock(5),
		focusBlock(25, "Deep focus"),
		breakBlock(5),
		focusBlock(25, "Deep focus"),
		breakBlock(5),
		focusBlock(25, "Deep focus"),
		breakBlock(5),
		focusBlock(20, "Deep focus"),
		wrapBlock(5),
	},
	180: {
		settleBlock(5),
		focusBlock(25, "Deep focus"),
		breakBlock(5),
		focusBlock(25, "Deep focus"),
		breakBlock(5),
		focusBlock(25, "Deep focus"),
		breakBlock(5),
		focusBlock(25, "Deep focus"),
		breakBlock(5),
		focusBlock(25, "Deep focus"),
		breakBlock(5),
		focusBlock(20, "Deep focus"),
		wrapBlock(5),
	},
}

var guidedDeepFocusStyle = map[int][]model.Block{
	30: {
		settleBlock(3),
		focusBlock(25, "Deep focus"),
		wrapBlock(2),
	},
	60: {
		settleBlock(5),
		focusBlock(50, "Deep focus"),
		wrapBlock(5),
	},
	90: {
		settleBlock(5),
		focusBlock(50, "Deep focus"),
		breakBlock(5),
		focusBlock(25, "Deep focus"),
		wrapBlock(5),
	},
	120: {
		settleBlock(5),
		focusBlock(50, "Deep focus"),
		breakBlock(10),
		focusBlock(50, "Deep focus"),
		wrapBlock(5),
	},
	180: {
		settleBlock(5),
		focusBlock(50, "Deep focus"),
		breakBlock(10),
		focusBlock(55, "Deep focus"),
		breakBlock(10),
		focusBlock(45, "Deep focus"),
		wrapBlock(5),
	},
}

func settleBlock(minutes int) model.Block {
	return model.Block{Type: model.BlockSettle, DurationSeconds: minutes * 60, Label: "Settle in"}
}

func focusBlock(minutes int, label string) model.Block {
	return model.Block{Type: model.BlockFocus, DurationSeconds: minutes * 60, Label: label}
}

func breakBlock(minutes int) model.Block {
	return model.Block{Type: model.BlockBreak, DurationSeconds: minutes * 60, Label: "Break"}
}

func wrapBlock(minutes int) model.Block {
	return model.Block{Type: model.BlockWrap, DurationSeconds: minutes * 60, Label: "Wrap up"}
}
