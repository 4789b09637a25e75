// Package engine runs the countdown over a session plan. All timing is
// derived from a wall-clock deadline rather than tick counting, so delayed
// or missed poll intervals self-correct instead of accumulating drift.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"focusflow/backend/internal/announce"
	"focusflow/backend/internal/model"
)

// DefaultInterval is the polling resolution of the tick driver. It bounds
// announcement latency only; countdown correctness never depends on it.
const DefaultInterval = 100 * time.Millisecond

// Snapshot is the observable timer state handed to subscribers.
type Snapshot struct {
	Status           model.TimerStatus `json:"status"`
	PlanIndex        int               `json:"planIndex"`
	RemainingSeconds int               `json:"remainingSeconds"`
	CurrentBlock     *model.Block      `json:"currentBlock,omitempty"`
	Blocks           []model.Block     `json:"blocks"`
}

// Engine is the timer state machine. One engine owns one TimerState; at
// most one tick driver is attached at a time, and starting a new plan
// cancels any prior driver.
type Engine struct {
	mu       sync.Mutex
	clock    func() time.Time
	interval time.Duration

	blocks    []model.Block
	planIndex int
	remaining int
	status    model.TimerStatus
	deadline  time.Time
	cursor    *announce.Cursor

	stopDriver chan struct{}

	announcer         func(announce.Event)
	onBlockComplete   func(block model.Block, elapsedSeconds int, skipped bool)
	onSessionComplete func()
	listeners         []func(Snapshot)
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithClock injects a time source. Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithInterval sets the driver polling interval. Zero disables the driver
// entirely; ticks must then be delivered via Tick.
func WithInterval(interval time.Duration) Option {
	return func(e *Engine) { e.interval = interval }
}

// WithAnnouncer registers the announcement sink.
func WithAnnouncer(fn func(announce.Event)) Option {
	return func(e *Engine) { e.announcer = fn }
}

// WithBlockComplete registers the block-completion hook. elapsedSeconds is
// the time actually spent in the block, which for skips is less than the
// planned duration.
func WithBlockComplete(fn func(block model.Block, elapsedSeconds int, skipped bool)) Option {
	return func(e *Engine) { e.onBlockComplete = fn }
}

// WithSessionComplete registers the all-blocks-complete hook. It fires
// exactly once per run.
func WithSessionComplete(fn func()) Option {
	return func(e *Engine) { e.onSessionComplete = fn }
}

// New creates an idle engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:    time.Now,
		interval: DefaultInterval,
		status:   model.StatusIdle,
		cursor:   announce.NewCursor(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Subscribe registers a listener for state changes.
func (e *Engine) Subscribe(fn func(Snapshot)) {
	e.mu.Lock()
	e.listeners = append(e.listeners, fn)
	e.mu.Unlock()
}

// Snapshot returns the current observable state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Start begins a new run over the given plan. An empty plan is a no-op.
// Any driver from a previous run is cancelled first.
func (e *Engine) Start(plan []model.Block) {
	if len(plan) == 0 {
		return
	}

	e.mu.Lock()
	e.stopDriverLocked()

	e.blocks = make([]model.Block, len(plan))
	copy(e.blocks, plan)
	e.planIndex = 0
	e.remaining = e.blocks[0].DurationSeconds
	e.deadline = e.clock().Add(time.Duration(e.remaining) * time.Second)
	e.status = model.StatusRunning
	e.cursor.Reset()
	e.startDriverLocked()

	pending := e.pendAnnounce(nil, announce.Transition(e.blocks[0].Type))
	pending = e.pendSnapshot(pending)
	e.mu.Unlock()

	fire(pending)
}

// Tick recomputes remaining time from the deadline. It is a no-op unless
// Running, and is idempotent under replay at the same instant. A single
// delayed tick past the deadline advances at most one block.
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	if e.status != model.StatusRunning {
		e.mu.Unlock()
		return
	}

	var pending []func()
	remaining := remainingUntil(e.deadline, now)
	if remaining > 0 {
		changed := remaining != e.remaining
		e.remaining = remaining
		if event, ok := announce.Decide(remaining, e.cursor); ok {
			pending = e.pendAnnounce(pending, event)
		}
		if changed {
			pending = e.pendSnapshot(pending)
		}
		e.mu.Unlock()
		fire(pending)
		return
	}

	finished := e.blocks[e.planIndex]
	e.remaining = 0
	pending = e.pendBlockComplete(pending, finished, finished.DurationSeconds, false)
	pending = e.advanceLocked(pending, now)
	pending = e.pendSnapshot(pending)
	e.mu.Unlock()

	fire(pending)
}

// Pause freezes the countdown. Valid only while Running. The driver is
// cancelled before the remaining value is frozen, so no tick can fire
// against a cleared deadline.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.status != model.StatusRunning {
		e.mu.Unlock()
		return
	}

	e.stopDriverLocked()
	e.deadline = time.Time{}
	e.status = model.StatusPaused
	pending := e.pendSnapshot(nil)
	e.mu.Unlock()

	fire(pending)
}

// Resume recomputes a fresh deadline from the frozen remaining value.
// A no-op unless Paused with time left.
func (e *Engine) Resume() {
	e.mu.Lock()
	if e.status != model.StatusPaused || e.remaining <= 0 {
		e.mu.Unlock()
		return
	}

	e.deadline = e.clock().Add(time.Duration(e.remaining) * time.Second)
	e.status = model.StatusRunning
	e.cursor.Reset()
	e.startDriverLocked()
	pending := e.pendSnapshot(nil)
	e.mu.Unlock()

	fire(pending)
}

// Reset returns to Idle at the top of the plan. The block list is kept so
// the same plan can restart. Future ticks are halted synchronously.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.stopDriverLocked()
	e.status = model.StatusIdle
	e.planIndex = 0
	e.remaining = 0
	if len(e.blocks) > 0 {
		e.remaining = e.blocks[0].DurationSeconds
	}
	e.deadline = time.Time{}
	e.cursor.Reset()
	pending := e.pendSnapshot(nil)
	e.mu.Unlock()

	fire(pending)
}

// Skip abandons the rest of the current block and advances. The skipped
// block's elapsed time is what actually passed, not its planned duration.
func (e *Engine) Skip() {
	e.mu.Lock()
	if e.status != model.StatusRunning && e.status != model.StatusPaused {
		e.mu.Unlock()
		return
	}

	block := e.blocks[e.planIndex]
	elapsed := block.DurationSeconds - e.remaining
	if elapsed < 0 {
		elapsed = 0
	}

	var pending []func()
	pending = e.pendBlockComplete(pending, block, elapsed, true)
	pending = e.advanceLocked(pending, e.clock())
	pending = e.pendSnapshot(pending)
	e.mu.Unlock()

	fire(pending)
}

// AdjustTime shifts the remaining time by deltaSeconds, clamped at zero.
// While Running the deadline is recomputed from now so the change takes
// effect immediately. The announcement cursor resets so cues can refire
// for the new timeline.
func (e *Engine) AdjustTime(deltaSeconds int) {
	e.mu.Lock()
	if e.status != model.StatusRunning && e.status != model.StatusPaused {
		e.mu.Unlock()
		return
	}

	e.remaining += deltaSeconds
	if e.remaining < 0 {
		e.remaining = 0
	}
	if e.status == model.StatusRunning {
		e.deadline = e.clock().Add(time.Duration(e.remaining) * time.Second)
	}
	e.cursor.Reset()
	pending := e.pendSnapshot(nil)
	e.mu.Unlock()

	fire(pending)
}

// AddCycles appends n break+focus pairs to the live plan. Always permitted.
func (e *Engine) AddCycles(n int) {
	if n <= 0 {
		return
	}

	e.mu.Lock()
	for i := 0; i < n; i++ {
		e.blocks = append(e.blocks,
			model.Block{Type: model.BlockBreak, DurationSeconds: model.BreakBlockSeconds, Label: "Break"},
			model.Block{Type: model.BlockFocus, DurationSeconds: model.FocusBlockSeconds, Label: "Focus"},
		)
	}
	pending := e.pendSnapshot(nil)
	e.mu.Unlock()

	fire(pending)
}

// RemoveCycles drops n break+focus pairs from the end of the plan, but
// never truncates the current or already-completed blocks. If the guard
// fails the plan is left untouched.
func (e *Engine) RemoveCycles(n int) {
	if n <= 0 {
		return
	}

	e.mu.Lock()
	remove := 2 * n
	if len(e.blocks)-remove < e.planIndex+1 {
		e.mu.Unlock()
		return
	}
	e.blocks = e.blocks[:len(e.blocks)-remove]
	pending := e.pendSnapshot(nil)
	e.mu.Unlock()

	fire(pending)
}

// Close cancels any running driver without touching timer state. For
// process shutdown.
func (e *Engine) Close() {
	e.mu.Lock()
	e.stopDriverLocked()
	e.mu.Unlock()
}

// advanceLocked moves to the next block or completes the run. Caller holds
// the lock and has already handled the finished block.
func (e *Engine) advanceLocked(pending []func(), now time.Time) []func() {
	e.planIndex++
	if e.planIndex < len(e.blocks) {
		next := e.blocks[e.planIndex]
		e.remaining = next.DurationSeconds
		if e.status == model.StatusRunning {
			e.deadline = now.Add(time.Duration(e.remaining) * time.Second)
		}
		e.cursor.Reset()
		return e.pendAnnounce(pending, announce.Transition(next.Type))
	}

	e.status = model.StatusCompleted
	e.deadline = time.Time{}
	e.stopDriverLocked()
	pending = e.pendAnnounce(pending, announce.Done())
	if e.onSessionComplete != nil {
		fn := e.onSessionComplete
		pending = append(pending, fn)
	}
	return pending
}

func (e *Engine) startDriverLocked() {
	if e.interval <= 0 {
		return
	}
	stop := make(chan struct{})
	e.stopDriver = stop
	go e.drive(stop)
}

func (e *Engine) stopDriverLocked() {
	if e.stopDriver != nil {
		close(e.stopDriver)
		e.stopDriver = nil
	}
}

func (e *Engine) drive(stop chan struct{}) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.Tick(e.clock())
		}
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		Status:           e.status,
		PlanIndex:        e.planIndex,
		RemainingSeconds: e.remaining,
		Blocks:           make([]model.Block, len(e.blocks)),
	}
	copy(snapshot.Blocks, e.blocks)
	if e.planIndex < len(e.blocks) {
		block := e.blocks[e.planIndex]
		snapshot.CurrentBlock = &block
	}
	return snapshot
}

func (e *Engine) pendSnapshot(pending []func()) []func() {
	snapshot := e.snapshotLocked()
	for _, listener := range e.listeners {
		fn := listener
		pending = append(pending, func() { fn(snapshot) })
	}
	return pending
}

func (e *Engine) pendAnnounce(pending []func(), event announce.Event) []func() {
	if e.announcer == nil {
		return pending
	}
	fn := e.announcer
	return append(pending, func() { fn(event) })
}

func (e *Engine) pendBlockComplete(pending []func(), block model.Block, elapsed int, skipped bool) []func() {
	if e.onBlockComplete == nil {
		return pending
	}
	fn := e.onBlockComplete
	return append(pending, func() { fn(block, elapsed, skipped) })
}

// fire runs side-effect callbacks outside the engine lock. A panicking
// subscriber is contained so it cannot corrupt timer state or kill the
// driver goroutine.
func fire(pending []func()) {
	for _, fn := range pending {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("timer subscriber panicked", "panic", r)
				}
			}()
			fn()
		}()
	}
}

// remainingUntil is ceil((deadline-now)/1s), floored at zero.
func remainingUntil(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	seconds := int(d / time.Second)
	if d%time.Second != 0 {
		seconds++
	}
	return seconds
}
