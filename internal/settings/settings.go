// Package settings persists the user-facing toggles as a JSON file in the
// user config directory, so they survive restarts.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
)

const fileName = "settings"

// DefaultDir resolves the per-user settings directory.
func DefaultDir(appName string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.Getenv("HOME"), ".config", appName)
	}
	return filepath.Join(dir, appName)
}

// Store implements ports.SettingsStore over a viper-managed JSON file.
// Load fills missing fields from the defaults, so new settings get sane
// values when an older file is read.
type Store struct {
	dir      string
	defaults domain.Settings
	log      zerolog.Logger
}

func NewStore(dir string, defaults domain.Settings, log zerolog.Logger) *Store {
	return &Store{dir: dir, defaults: defaults, log: log}
}

func (s *Store) Load() (domain.Settings, error) {
	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType("json")
	v.AddConfigPath(s.dir)
	s.applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			s.log.Debug().Str("dir", s.dir).Msg("no settings file, using defaults")
			return s.defaults, nil
		}
		return s.defaults, fmt.Errorf("read settings: %w", err)
	}

	loaded := s.defaults
	if err := v.Unmarshal(&loaded); err != nil {
		return s.defaults, fmt.Errorf("unmarshal settings: %w", err)
	}
	return loaded, nil
}

func (s *Store) Save(settings domain.Settings) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("llm_enabled", settings.LLMEnabled)
	v.Set("auto_paste", settings.AutoPaste)
	v.Set("copy_method", string(settings.CopyMethod))
	v.Set("smart_text_processing", settings.SmartText)
	v.Set("smart_short_phrase_words", settings.ShortPhraseWords)

	path := filepath.Join(s.dir, fileName+".json")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	s.log.Debug().Str("path", path).Msg("settings saved")
	return nil
}

func (s *Store) applyDefaults(v *viper.Viper) {
	v.SetDefault("llm_enabled", s.defaults.LLMEnabled)
	v.SetDefault("auto_paste", s.defaults.AutoPaste)
	v.SetDefault("copy_method", string(s.defaults.CopyMethod))
	v.SetDefault("smart_text_processing", s.defaults.SmartText)
	v.SetDefault("smart_short_phrase_words", s.defaults.ShortPhraseWords)
}
