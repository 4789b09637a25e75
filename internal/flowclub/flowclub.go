// Package flowclub mirrors an externally broadcast Flow Club timer for
// display. The mirror is passive: payloads are validated and stored but
// never feed back into the timer engine.
package flowclub

import (
	"fmt"
	"sync"
	"time"
)

// MaxAge is how old a payload's updatedAt may be before it is stale.
const MaxAge = 5 * time.Second

// Payload is the cross-window sync message shape.
type Payload struct {
	TimerSeconds           int    `json:"timerSeconds"`
	UpdatedAt              int64  `json:"updatedAt"`
	SessionDurationMinutes int    `json:"sessionDurationMinutes"`
	SessionTitle           string `json:"sessionTitle"`
	CurrentSessionIndex    int    `json:"currentSessionIndex"`
	CurrentSessionType     string `json:"currentSessionType"`
	CompletedCount         int    `json:"completedCount"`
	PhaseLabel             string `json:"phaseLabel"`
	SessionStyle           string `json:"sessionStyle"`
	CurrentBlock           string `json:"currentBlock"`
}

// Validate type-checks every field of a raw decoded payload. JSON numbers
// arrive as float64; anything else for a numeric field is rejected.
func Validate(raw map[string]any) (Payload, error) {
	var p Payload
	var err error

	if p.TimerSeconds, err = intField(raw, "timerSeconds"); err != nil {
		return Payload{}, err
	}
	updatedAt, err := intField(raw, "updatedAt")
	if err != nil {
		return Payload{}, err
	}
	p.UpdatedAt = int64(updatedAt)
	if p.SessionDurationMinutes, err = intField(raw, "sessionDurationMinutes"); err != nil {
		return Payload{}, err
	}
	if p.SessionTitle, err = stringField(raw, "sessionTitle"); err != nil {
		return Payload{}, err
	}
	if p.CurrentSessionIndex, err = intField(raw, "currentSessionIndex"); err != nil {
		return Payload{}, err
	}
	if p.CurrentSessionType, err = stringField(raw, "currentSessionType"); err != nil {
		return Payload{}, err
	}
	if p.CompletedCount, err = intField(raw, "completedCount"); err != nil {
		return Payload{}, err
	}
	if p.PhaseLabel, err = stringField(raw, "phaseLabel"); err != nil {
		return Payload{}, err
	}
	if p.SessionStyle, err = stringField(raw, "sessionStyle"); err != nil {
		return Payload{}, err
	}
	if p.CurrentBlock, err = stringField(raw, "currentBlock"); err != nil {
		return Payload{}, err
	}

	return p, nil
}

func intField(raw map[string]any, key string) (int, error) {
	value, ok := raw[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	number, ok := value.(float64)
	if !ok {
		return 0, fmt.Errorf("field %q must be a number", key)
	}
	return int(number), nil
}

func stringField(raw map[string]any, key string) (string, error) {
	value, ok := raw[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	text, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("field %q must be a string", key)
	}
	return text, nil
}

// Mirror holds the last accepted payload.
type Mirror struct {
	mu    sync.Mutex
	last  *Payload
	clock func() time.Time
}

// NewMirror creates an empty mirror.
func NewMirror(clock func() time.Time) *Mirror {
	if clock == nil {
		clock = time.Now
	}
	return &Mirror{clock: clock}
}

// Apply validates and stores a raw payload. Malformed or stale payloads
// are rejected and the prior state is retained unchanged.
func (m *Mirror) Apply(raw map[string]any) error {
	payload, err := Validate(raw)
	if err != nil {
		return err
	}

	now := m.clock()
	age := now.UnixMilli() - payload.UpdatedAt
	if age > MaxAge.Milliseconds() {
		return fmt.Errorf("stale payload: %dms old", age)
	}

	m.mu.Lock()
	m.last = &payload
	m.mu.Unlock()
	return nil
}

// State returns the last accepted payload, if any.
func (m *Mirror) State() (Payload, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return Payload{}, false
	}
	return *m.last, true
}
