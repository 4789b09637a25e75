package model

// AudioSettings controls voice and chime playback at the audio boundary.
// The announcement dispatcher still computes every event when muted; the
// player decides whether to play it.
type AudioSettings struct {
	VoiceEnabled  bool    `json:"voiceEnabled" yaml:"voiceEnabled"`
	ChimesEnabled bool    `json:"chimesEnabled" yaml:"chimesEnabled"`
	Volume        float64 `json:"volume" yaml:"volume"`
}

// NotificationSettings controls block and session completion notices.
type NotificationSettings struct {
	Enabled        bool `json:"enabled" yaml:"enabled"`
	OnBlockEnd     bool `json:"onBlockEnd" yaml:"onBlockEnd"`
	OnSessionEnd   bool `json:"onSessionEnd" yaml:"onSessionEnd"`
	MinutesWarning int  `json:"minutesWarning" yaml:"minutesWarning"`
}

// DefaultAudioSettings returns the out-of-box audio configuration.
func DefaultAudioSettings() AudioSettings {
	return AudioSettings{
		VoiceEnabled:  true,
		ChimesEnabled: true,
		Volume:        1.0,
	}
}

// DefaultNotificationSettings returns the out-of-box notification
// configuration.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Enabled:        true,
		OnBlockEnd:     true,
		OnSessionEnd:   true,
		MinutesWarning: 5,
	}
}
