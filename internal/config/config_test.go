package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"focusflow/backend/internal/config"
)

func TestLoadSettingsFileMissingPathYieldsDefaults(t *testing.T) {
	settings, err := config.LoadSettingsFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !settings.Audio.VoiceEnabled || !settings.Notifications.Enabled {
		t.Fatalf("expected defaults, got %+v", settings)
	}

	settings, err = config.LoadSettingsFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if !settings.Audio.ChimesEnabled {
		t.Fatalf("expected defaults for missing file, got %+v", settings)
	}
}

func TestLoadSettingsFileParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := []byte("audio:\n  voiceEnabled: false\n  chimesEnabled: true\n  volume: 0.5\nnotifications:\n  enabled: false\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	settings, err := config.LoadSettingsFile(path)
	if err != nil {
		t.Fatalf("parse settings: %v", err)
	}
	if settings.Audio.VoiceEnabled {
		t.Fatal("expected voice disabled")
	}
	if settings.Audio.Volume != 0.5 {
		t.Fatalf("expected volume 0.5, got %v", settings.Audio.Volume)
	}
	if settings.Notifications.Enabled {
		t.Fatal("expected notifications disabled")
	}
}

func TestLoadSettingsFileRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("audio: [not a map"), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	if _, err := config.LoadSettingsFile(path); err == nil {
		t.Fatal("expected parse error for malformed yaml")
	}
}
