// Package repository persists app state as one JSON blob per key in the
// local sqlite database. Reads degrade to defaults on missing or corrupt
// data; writes are best-effort and never gate the in-memory state.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"focusflow/backend/internal/model"
)

// ErrNotFound is returned when a blob key has never been written.
var ErrNotFound = errors.New("not found")

const (
	keyUserStats            = "user_stats"
	keySessionHistory       = "session_history"
	keySessionDraft         = "session_draft"
	keyAudioSettings        = "audio_settings"
	keyNotificationSettings = "notification_settings"
)

// StateRepository is the blob store over sqlite.
type StateRepository struct {
	db *sql.DB
}

// NewStateRepository wraps the given database handle.
func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

func (r *StateRepository) getBlob(ctx context.Context, key string, out any) error {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("read blob %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode blob %s: %w", key, err)
	}
	return nil
}

func (r *StateRepository) putBlob(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode blob %s: %w", key, err)
	}
	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		string(raw),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write blob %s: %w", key, err)
	}
	return nil
}

func (r *StateRepository) deleteBlob(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

// LoadUserStats reads the stats blob, falling back to empty stats when the
// blob is missing or unreadable.
func (r *StateRepository) LoadUserStats(ctx context.Context) model.UserStats {
	var stats model.UserStats
	if err := r.getBlob(ctx, keyUserStats, &stats); err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("user stats blob unreadable, starting fresh", "error", err)
		}
		return model.UserStats{}
	}
	return stats
}

// SaveUserStats writes the stats blob. Satisfies stats.Persister.
func (r *StateRepository) SaveUserStats(stats model.UserStats) error {
	return r.putBlob(context.Background(), keyUserStats, stats)
}

// LoadHistory reads the session history blob, newest first, empty on any
// failure.
func (r *StateRepository) LoadHistory(ctx context.Context) []model.SessionRecord {
	var history []model.SessionRecord
	if err := r.getBlob(ctx, keySessionHistory, &history); err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("session history blob unreadable, starting fresh", "error", err)
		}
		return nil
	}
	return history
}

// SaveHistory writes the session history blob. Satisfies
// recorder.HistoryPersister.
func (r *StateRepository) SaveHistory(records []model.SessionRecord) error {
	return r.putBlob(context.Background(), keySessionHistory, records)
}

// LoadDraft reads the pending session draft, nil when absent or corrupt.
func (r *StateRepository) LoadDraft(ctx context.Context) *model.SessionDraft {
	var draft model.SessionDraft
	if err := r.getBlob(ctx, keySessionDraft, &draft); err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("session draft blob unreadable, discarding", "error", err)
		}
		return nil
	}
	return &draft
}

// SaveDraft writes the pending session draft.
func (r *StateRepository) SaveDraft(ctx context.Context, draft model.SessionDraft) error {
	return r.putBlob(ctx, keySessionDraft, draft)
}

// ClearDraft removes the pending session draft.
func (r *StateRepository) ClearDraft(ctx context.Context) error {
	return r.deleteBlob(ctx, keySessionDraft)
}

// LoadAudioSettings reads audio settings. The second return reports
// whether a stored blob was found; on missing or corrupt data it is false
// and defaults are returned.
func (r *StateRepository) LoadAudioSettings(ctx context.Context) (model.AudioSettings, bool) {
	settings := model.DefaultAudioSettings()
	if err := r.getBlob(ctx, keyAudioSettings, &settings); err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("audio settings blob unreadable, using defaults", "error", err)
		}
		return model.DefaultAudioSettings(), false
	}
	return settings, true
}

// SaveAudioSettings writes audio settings.
func (r *StateRepository) SaveAudioSettings(ctx context.Context, settings model.AudioSettings) error {
	return r.putBlob(ctx, keyAudioSettings, settings)
}

// LoadNotificationSettings reads notification settings. The second return
// reports whether a stored blob was found.
func (r *StateRepository) LoadNotificationSettings(ctx context.Context) (model.NotificationSettings, bool) {
	settings := model.DefaultNotificationSettings()
	if err := r.getBlob(ctx, keyNotificationSettings, &settings); err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("notification settings blob unreadable, using defaults", "error", err)
		}
		return model.DefaultNotificationSettings(), false
	}
	return settings, true
}

// SaveNotificationSettings writes notification settings.
func (r *StateRepository) SaveNotificationSettings(ctx context.Context, settings model.NotificationSettings) error {
	return r.putBlob(ctx, keyNotificationSettings, settings)
}
