package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"focusflow/backend/internal/announce"
	"focusflow/backend/internal/engine"
	apperrors "focusflow/backend/internal/errors"
	"focusflow/backend/internal/flowclub"
	"focusflow/backend/internal/model"
	"focusflow/backend/internal/plan"
	"focusflow/backend/internal/recorder"
	"focusflow/backend/internal/repository"
	"focusflow/backend/internal/stats"
)

// TimerService composes the timer engine, announcement dispatcher, session
// recorder, statistics store and Flow Club mirror for one local client
// process. It is the single owner of the engine's TimerState.
type TimerService struct {
	mu sync.Mutex

	engine     *engine.Engine
	recorder   *recorder.Recorder
	stats      *stats.Store
	repo       *repository.StateRepository
	player     *announce.PhrasePlayer
	dispatcher *announce.Dispatcher
	mirror     *flowclub.Mirror
	clock      func() time.Time

	audio         model.AudioSettings
	notifications model.NotificationSettings

	active *sessionMeta
}

// sessionMeta tracks what the current run is, for record building.
type sessionMeta struct {
	mode      model.Mode
	timerType string
	draft     *model.SessionDraft
}

// Deps carries the service's collaborators from the composition root.
type Deps struct {
	Repo *repository.StateRepository
	// Interval is the engine driver polling interval; zero disables the
	// driver (tests drive ticks manually through the engine).
	Interval time.Duration
	Clock    func() time.Time
	// DefaultAudio and DefaultNotifications seed settings when no stored
	// blob exists yet (e.g. from the optional YAML settings file).
	DefaultAudio         model.AudioSettings
	DefaultNotifications model.NotificationSettings
}

// NewTimerService loads persisted state and wires the engine hooks.
func NewTimerService(deps Deps) *TimerService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	ctx := context.Background()

	audio := deps.DefaultAudio
	if stored, found := deps.Repo.LoadAudioSettings(ctx); found {
		audio = stored
	}
	notifications := deps.DefaultNotifications
	if stored, found := deps.Repo.LoadNotificationSettings(ctx); found {
		notifications = stored
	}

	statsStore := stats.New(deps.Repo.LoadUserStats(ctx), deps.Repo, stats.WithClock(clock))
	sessionRecorder := recorder.New(deps.Repo.LoadHistory(ctx), statsStore, deps.Repo, recorder.WithClock(clock))

	player := announce.NewPhrasePlayer(audio)
	dispatcher := announce.NewDispatcher(player)

	s := &TimerService{
		recorder:      sessionRecorder,
		stats:         statsStore,
		repo:          deps.Repo,
		player:        player,
		dispatcher:    dispatcher,
		mirror:        flowclub.NewMirror(clock),
		clock:         clock,
		audio:         audio,
		notifications: notifications,
	}

	s.engine = engine.New(
		engine.WithClock(clock),
		engine.WithInterval(deps.Interval),
		engine.WithAnnouncer(dispatcher.Dispatch),
		engine.WithBlockComplete(s.handleBlockComplete),
		engine.WithSessionComplete(s.handleSessionComplete),
	)

	return s
}

// Close halts the engine driver. For process shutdown.
func (s *TimerService) Close() {
	s.engine.Close()
}

// Engine exposes the engine for state-change subscriptions.
func (s *TimerService) Engine() *engine.Engine {
	return s.engine
}

// TimerView is the state snapshot returned to clients.
type TimerView struct {
	Status           model.TimerStatus `json:"status"`
	PlanIndex        int               `json:"planIndex"`
	RemainingSeconds int               `json:"remainingSeconds"`
	CurrentBlock     *model.Block      `json:"currentBlock,omitempty"`
	Blocks           []model.Block     `json:"blocks"`
	Mode             model.Mode        `json:"mode,omitempty"`
	TimerType        string            `json:"timerType,omitempty"`
	ServerTime       time.Time         `json:"serverTime"`
}

// StartInput is the start request.
type StartInput struct {
	Mode    string
	Minutes int
	Style   string
	Draft   *model.SessionDraft
}

// PreviewPlan generates a plan without starting it.
func (s *TimerService) PreviewPlan(in StartInput) ([]model.Block, *apperrors.APIError) {
	mode, style, apiErr := s.validatePlanInput(in)
	if apiErr != nil {
		return nil, apiErr
	}
	blocks := plan.Generate(mode, in.Minutes, style)
	if len(blocks) == 0 {
		return nil, apperrors.BadRequest("empty_plan", "no plan exists for the requested duration")
	}
	return blocks, nil
}

// Start generates a plan and begins the countdown. Any prior run's driver
// is cancelled by the engine.
func (s *TimerService) Start(ctx context.Context, in StartInput) (*TimerView, *apperrors.APIError) {
	mode, style, apiErr := s.validatePlanInput(in)
	if apiErr != nil {
		return nil, apiErr
	}

	blocks := plan.Generate(mode, in.Minutes, style)
	if len(blocks) == 0 {
		return nil, apperrors.BadRequest("empty_plan", "no plan exists for the requested duration")
	}

	draft := in.Draft
	if draft != nil {
		if apiErr := validateDraft(draft); apiErr != nil {
			return nil, apiErr
		}
		if err := s.repo.SaveDraft(ctx, *draft); err != nil {
			slog.Warn("persist session draft failed", "error", err)
		}
	} else {
		draft = s.repo.LoadDraft(ctx)
	}

	s.mu.Lock()
	s.active = &sessionMeta{
		mode:      mode,
		timerType: timerTypeFor(mode, style),
		draft:     draft,
	}
	s.mu.Unlock()

	s.engine.Start(blocks)
	return s.view(), nil
}

// GetState returns the current timer view.
func (s *TimerService) GetState() *TimerView {
	return s.view()
}

// Pause freezes the countdown. Invalid transitions are silent no-ops.
func (s *TimerService) Pause() *TimerView {
	s.engine.Pause()
	return s.view()
}

// Resume continues a paused countdown.
func (s *TimerService) Resume() *TimerView {
	s.engine.Resume()
	return s.view()
}

// Skip abandons the rest of the current block.
func (s *TimerService) Skip() *TimerView {
	s.engine.Skip()
	return s.view()
}

// AdjustTime shifts the remaining time by deltaSeconds.
func (s *TimerService) AdjustTime(deltaSeconds int) *TimerView {
	s.engine.AdjustTime(deltaSeconds)
	return s.view()
}

// AddCycles appends n break+focus pairs to the live plan.
func (s *TimerService) AddCycles(n int) (*TimerView, *apperrors.APIError) {
	if n <= 0 {
		return nil, apperrors.BadRequest("invalid_cycles", "cycles must be a positive integer")
	}
	s.engine.AddCycles(n)
	return s.view(), nil
}

// RemoveCycles removes n break+focus pairs from the end of the plan if the
// guard allows it; otherwise the plan is unchanged.
func (s *TimerService) RemoveCycles(n int) (*TimerView, *apperrors.APIError) {
	if n <= 0 {
		return nil, apperrors.BadRequest("invalid_cycles", "cycles must be a positive integer")
	}
	s.engine.RemoveCycles(n)
	return s.view(), nil
}

// Reset returns the timer to idle at the top of the same plan. No record
// is written; use Stop to record a partial session.
func (s *TimerService) Reset() *TimerView {
	s.engine.Reset()
	return s.view()
}

// Stop ends the run early. When save is true the current block is recorded
// as partial with the given note; when false the elapsed time is
// discarded. Either way the timer resets and the draft is cleared.
func (s *TimerService) Stop(ctx context.Context, save bool, note string) *TimerView {
	snapshot := s.engine.Snapshot()

	if save && (snapshot.Status == model.StatusRunning || snapshot.Status == model.StatusPaused) && snapshot.CurrentBlock != nil {
		s.mu.Lock()
		meta := s.active
		s.mu.Unlock()

		input := recorder.Input{
			Block:           *snapshot.CurrentBlock,
			RemainingAtStop: snapshot.RemainingSeconds,
			Outcome:         recorder.OutcomeStopped,
			Note:            note,
		}
		if meta != nil {
			input.Mode = meta.mode
			input.TimerType = meta.timerType
			if snapshot.CurrentBlock.Type == model.BlockFocus {
				input.Draft = meta.draft
			}
		}
		s.recorder.Record(input)
	}

	s.engine.Reset()
	s.clearSession(ctx)
	return s.view()
}

// Abandon is the navigation-away safety net: the in-flight block is saved
// as partial without requiring an explicit decision from the user.
func (s *TimerService) Abandon(ctx context.Context) *TimerView {
	return s.Stop(ctx, true, "")
}

// History returns the recorded sessions, newest first.
func (s *TimerService) History() []model.SessionRecord {
	return s.recorder.History()
}

// Days returns per-day summaries of the history, newest day first.
func (s *TimerService) Days() []model.DailySummary {
	return recorder.GroupByDay(s.recorder.History())
}

// Stats returns the current user statistics.
func (s *TimerService) Stats() model.UserStats {
	return s.stats.Snapshot()
}

// GetDraft returns the pending session draft, if any.
func (s *TimerService) GetDraft(ctx context.Context) *model.SessionDraft {
	s.mu.Lock()
	if s.active != nil && s.active.draft != nil {
		draft := *s.active.draft
		s.mu.Unlock()
		return &draft
	}
	s.mu.Unlock()
	return s.repo.LoadDraft(ctx)
}

// SaveDraft validates and stores the session draft, attaching it to the
// active session if one is running.
func (s *TimerService) SaveDraft(ctx context.Context, draft model.SessionDraft) *apperrors.APIError {
	if apiErr := validateDraft(&draft); apiErr != nil {
		return apiErr
	}
	if err := s.repo.SaveDraft(ctx, draft); err != nil {
		slog.Warn("persist session draft failed", "error", err)
	}
	s.mu.Lock()
	if s.active != nil {
		s.active.draft = &draft
	}
	s.mu.Unlock()
	return nil
}

// ClearDraft discards the pending draft.
func (s *TimerService) ClearDraft(ctx context.Context) {
	s.clearSessionDraft(ctx)
}

// AudioSettings returns the current audio settings.
func (s *TimerService) AudioSettings() model.AudioSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audio
}

// UpdateAudioSettings stores new audio settings and applies them to the
// player immediately.
func (s *TimerService) UpdateAudioSettings(ctx context.Context, settings model.AudioSettings) model.AudioSettings {
	s.mu.Lock()
	s.audio = settings
	s.mu.Unlock()

	s.player.UpdateSettings(settings)
	if err := s.repo.SaveAudioSettings(ctx, settings); err != nil {
		slog.Warn("persist audio settings failed", "error", err)
	}
	return settings
}

// NotificationSettings returns the current notification settings.
func (s *TimerService) NotificationSettings() model.NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifications
}

// UpdateNotificationSettings stores new notification settings.
func (s *TimerService) UpdateNotificationSettings(ctx context.Context, settings model.NotificationSettings) model.NotificationSettings {
	s.mu.Lock()
	s.notifications = settings
	s.mu.Unlock()

	if err := s.repo.SaveNotificationSettings(ctx, settings); err != nil {
		slog.Warn("persist notification settings failed", "error", err)
	}
	return settings
}

// ApplySync validates and mirrors a Flow Club payload.
func (s *TimerService) ApplySync(raw map[string]any) *apperrors.APIError {
	if err := s.mirror.Apply(raw); err != nil {
		return apperrors.BadRequest("invalid_sync_payload", err.Error())
	}
	return nil
}

// SyncState returns the last mirrored Flow Club payload.
func (s *TimerService) SyncState() (flowclub.Payload, bool) {
	return s.mirror.State()
}

func (s *TimerService) handleBlockComplete(block model.Block, elapsedSeconds int, skipped bool) {
	s.mu.Lock()
	meta := s.active
	s.mu.Unlock()

	outcome := recorder.OutcomeCompleted
	remaining := 0
	if skipped {
		outcome = recorder.OutcomeSkipped
		remaining = block.DurationSeconds - elapsedSeconds
	}

	input := recorder.Input{
		Block:           block,
		RemainingAtStop: remaining,
		Outcome:         outcome,
	}
	if meta != nil {
		input.Mode = meta.mode
		input.TimerType = meta.timerType
		if block.Type == model.BlockFocus {
			input.Draft = meta.draft
		}
	}

	s.recorder.Record(input)
}

func (s *TimerService) handleSessionComplete() {
	s.clearSession(context.Background())
}

func (s *TimerService) clearSession(ctx context.Context) {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
	s.clearSessionDraft(ctx)
}

func (s *TimerService) clearSessionDraft(ctx context.Context) {
	if err := s.repo.ClearDraft(ctx); err != nil {
		slog.Warn("clear session draft failed", "error", err)
	}
	s.mu.Lock()
	if s.active != nil {
		s.active.draft = nil
	}
	s.mu.Unlock()
}

func (s *TimerService) view() *TimerView {
	snapshot := s.engine.Snapshot()

	view := &TimerView{
		Status:           snapshot.Status,
		PlanIndex:        snapshot.PlanIndex,
		RemainingSeconds: snapshot.RemainingSeconds,
		CurrentBlock:     snapshot.CurrentBlock,
		Blocks:           snapshot.Blocks,
		ServerTime:       s.clock(),
	}

	s.mu.Lock()
	if s.active != nil {
		view.Mode = s.active.mode
		view.TimerType = s.active.timerType
	}
	s.mu.Unlock()

	return view
}

func (s *TimerService) validatePlanInput(in StartInput) (model.Mode, model.Style, *apperrors.APIError) {
	mode := model.Mode(in.Mode)
	switch mode {
	case model.ModePomodoro, model.ModeGuided, model.ModeCustom:
	default:
		return "", "", apperrors.BadRequest("invalid_mode", "mode must be one of pomodoro, guided, custom")
	}

	if in.Minutes <= 0 {
		return "", "", apperrors.BadRequest("invalid_duration", "duration must be positive minutes")
	}

	style := model.Style(in.Style)
	if in.Style == "" {
		style = model.StylePomodoro
	} else if style != model.StylePomodoro && style != model.StyleDeepFocus {
		return "", "", apperrors.BadRequest("invalid_style", "style must be pomodoro_style or deep_focus_style")
	}

	return mode, style, nil
}

func timerTypeFor(mode model.Mode, style model.Style) string {
	switch mode {
	case model.ModeGuided:
		return string(style)
	case model.ModePomodoro:
		return "interval"
	default:
		return "simple"
	}
}

func validateDraft(draft *model.SessionDraft) *apperrors.APIError {
	if len(draft.Intent) > model.MaxIntentLength {
		return apperrors.BadRequest("invalid_intent", "intent must be at most 80 characters")
	}
	if len(draft.Steps) > model.MaxPrepSteps {
		return apperrors.BadRequest("too_many_steps", "at most 5 prep steps are allowed")
	}
	for _, step := range draft.Steps {
		if len(step.Text) > model.MaxPrepStepLength {
			return apperrors.BadRequest("invalid_step", "each prep step must be at most 60 characters")
		}
	}
	return nil
}
