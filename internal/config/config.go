// Package config resolves runtime configuration from FSTT_* environment
// variables with sensible defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const appName = "float-speech-to-text"

// Config stores everything resolved at startup. Settings the user can flip
// at runtime live in domain.Settings instead; the values here only seed the
// defaults for a first run.
type Config struct {
	Deepgram  DeepgramConfig
	Audio     AudioConfig
	LLM       LLMConfig
	Clipboard ClipboardConfig
	Session   SessionConfig
	Paths     PathsConfig
}

type DeepgramConfig struct {
	APIKey      string
	APIBaseURL  string
	Model       string
	Language    string
	SmartFormat bool
}

type AudioConfig struct {
	RecorderCommand string
	InputFormat     string
	InputDevice     string
	SampleRate      int
	Channels        int
}

type LLMConfig struct {
	Enabled     bool
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	PromptFile  string
	MaxRetries  int
	Timeout     time.Duration
}

type ClipboardConfig struct {
	CopyMethod       string
	AutoPaste        bool
	PasteDelay       time.Duration
	SmartText        bool
	ShortPhraseWords int
}

type SessionConfig struct {
	ChunkSize      int
	StreamingGrace time.Duration
	RestartDelay   time.Duration
}

type PathsConfig struct {
	SettingsDir string
	HistoryDir  string
}

// Load resolves configuration from the environment.
func Load() (Config, error) {
	if _, err := os.UserHomeDir(); err != nil {
		return Config{}, errors.New("could not determine home directory")
	}

	cfg := Config{
		Deepgram: DeepgramConfig{
			APIKey:      strings.TrimSpace(os.Getenv("DEEPGRAM_API_KEY")),
			APIBaseURL:  envOrDefault("DEEPGRAM_API_BASE", "https://api.deepgram.com/v1"),
			Model:       envOrDefault("DEEPGRAM_MODEL", "nova-2"),
			Language:    strings.TrimSpace(os.Getenv("DEEPGRAM_LANGUAGE")),
			SmartFormat: envOrDefaultBool("DEEPGRAM_SMART_FORMAT", true),
		},
		Audio: AudioConfig{
			RecorderCommand: envOrDefault("FSTT_FFMPEG_COMMAND", "ffmpeg"),
			InputFormat:     envOrDefault("FSTT_AUDIO_INPUT_FORMAT", "pulse"),
			InputDevice:     envOrDefault("FSTT_AUDIO_INPUT_DEVICE", "default"),
			SampleRate:      envOrDefaultInt("FSTT_WAV_SAMPLE_RATE", 16000),
			Channels:        envOrDefaultInt("FSTT_WAV_CHANNELS", 1),
		},
		LLM: LLMConfig{
			Enabled:     envOrDefaultBool("FSTT_LLM_ENABLED", true),
			APIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			BaseURL:     envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature: envOrDefaultFloat("FSTT_LLM_TEMPERATURE", 1.0),
			PromptFile:  envOrDefault("FSTT_LLM_PROMPT_FILE", "prompt.md"),
			MaxRetries:  envOrDefaultInt("FSTT_LLM_MAX_RETRIES", 2),
			Timeout:     time.Duration(envOrDefaultInt("FSTT_LLM_TIMEOUT_SEC", 60)) * time.Second,
		},
		Clipboard: ClipboardConfig{
			CopyMethod:       envOrDefault("FSTT_CLIPBOARD_COPY_METHOD", "clipboard"),
			AutoPaste:        envOrDefaultBool("FSTT_CLIPBOARD_PASTE_ENABLED", true),
			PasteDelay:       time.Duration(envOrDefaultInt("FSTT_CLIPBOARD_PASTE_DELAY_MS", 200)) * time.Millisecond,
			SmartText:        envOrDefaultBool("FSTT_POSTPROCESSING_ENABLED", false),
			// Earlier releases shipped the misspelled TRESHOLD key; keep
			// honoring it so existing env files are not silently ignored.
			ShortPhraseWords: envOrDefaultInt("FSTT_POSTPROCESSING_WORD_THRESHOLD",
				envOrDefaultInt("FSTT_POSTPROCESSING_WORD_TRESHOLD", 3)),
		},
		Session: SessionConfig{
			ChunkSize:      envOrDefaultInt("FSTT_AUDIO_CHUNK_SIZE", 4096),
			StreamingGrace: time.Duration(envOrDefaultInt("FSTT_STREAMING_GRACE_MS", 1000)) * time.Millisecond,
			RestartDelay:   time.Duration(envOrDefaultFloat("FSTT_RECORD_RESTART_DELAY_SEC", 0.1) * float64(time.Second)),
		},
		Paths: PathsConfig{
			SettingsDir: envOrDefault("FSTT_SETTINGS_DIR", defaultConfigDir()),
			HistoryDir:  envOrDefault("FSTT_HISTORY_DIR", defaultCacheDir()),
		},
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Session.ChunkSize < 256 {
		cfg.Session.ChunkSize = 4096
	}
	if cfg.Clipboard.ShortPhraseWords <= 0 {
		cfg.Clipboard.ShortPhraseWords = 3
	}
	if cfg.LLM.MaxRetries <= 0 {
		cfg.LLM.MaxRetries = 2
	}

	return cfg, nil
}

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.Getenv("HOME"), ".config", appName)
	}
	return filepath.Join(dir, appName)
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.Getenv("HOME"), ".cache", appName)
	}
	return filepath.Join(dir, appName)
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
