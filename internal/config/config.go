// Package config loads server configuration from the environment (with
// optional .env file) and an optional YAML settings file for audio and
// notification defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"focusflow/backend/internal/model"
)

type Config struct {
	Port         string
	DBPath       string
	CORSOrigins  []string
	TickInterval time.Duration
	SettingsFile string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first if present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	return Config{
		Port:         getEnv("PORT", "8080"),
		DBPath:       getEnv("DB_PATH", "./data/focusflow.db"),
		CORSOrigins:  getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
		TickInterval: time.Duration(getEnvInt("TICK_INTERVAL_MS", 100)) * time.Millisecond,
		SettingsFile: getEnv("SETTINGS_FILE", ""),
	}
}

// FileSettings is the optional YAML settings file shape.
type FileSettings struct {
	Audio         model.AudioSettings        `yaml:"audio"`
	Notifications model.NotificationSettings `yaml:"notifications"`
}

// LoadSettingsFile parses the YAML settings file at path. A missing or
// empty path yields defaults without error; a malformed file is an error
// so a typo does not silently mute the app.
func LoadSettingsFile(path string) (FileSettings, error) {
	settings := FileSettings{
		Audio:         model.DefaultAudioSettings(),
		Notifications: model.DefaultNotificationSettings(),
	}
	if path == "" {
		return settings, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return settings, fmt.Errorf("parse settings file: %w", err)
	}
	return settings, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
