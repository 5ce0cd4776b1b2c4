// Package bootstrap assembles the runtime graph: configuration, persisted
// settings, the capture pipeline, the effect handlers, and the store.
package bootstrap

import (
	"github.com/rs/zerolog"

	"github.com/postpersonality/float-speech-to-text/internal/audio"
	"github.com/postpersonality/float-speech-to-text/internal/clipboard"
	"github.com/postpersonality/float-speech-to-text/internal/config"
	"github.com/postpersonality/float-speech-to-text/internal/domain"
	"github.com/postpersonality/float-speech-to-text/internal/effects"
	"github.com/postpersonality/float-speech-to-text/internal/history"
	"github.com/postpersonality/float-speech-to-text/internal/postproc"
	"github.com/postpersonality/float-speech-to-text/internal/ports"
	"github.com/postpersonality/float-speech-to-text/internal/providers/deepgram"
	"github.com/postpersonality/float-speech-to-text/internal/settings"
	"github.com/postpersonality/float-speech-to-text/internal/speech"
	"github.com/postpersonality/float-speech-to-text/internal/state"
	"github.com/postpersonality/float-speech-to-text/internal/typing"
)

// Services is the assembled runtime graph.
type Services struct {
	Store   *state.Store
	Speech  *speech.Service
	History *history.DB
	Config  config.Config
}

// Build wires all backend dependencies. The effect handler order is part of
// the contract: finalization must observe completion events before the
// history and settings handlers run.
func Build(log zerolog.Logger) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	defaults := domain.Settings{
		LLMEnabled:       cfg.LLM.Enabled,
		AutoPaste:        cfg.Clipboard.AutoPaste,
		CopyMethod:       domain.CopyMethod(cfg.Clipboard.CopyMethod),
		SmartText:        cfg.Clipboard.SmartText,
		ShortPhraseWords: cfg.Clipboard.ShortPhraseWords,
	}

	settingsStore := settings.NewStore(cfg.Paths.SettingsDir, defaults, log)
	loaded, err := settingsStore.Load()
	if err != nil {
		log.Warn().Err(err).Msg("could not load settings, using defaults")
		loaded = defaults
	}

	historyDB, err := history.Open(cfg.Paths.HistoryDir)
	if err != nil {
		return Services{}, err
	}

	speechSvc := speech.NewService(
		audio.NewRecorder(cfg.Audio.RecorderCommand),
		deepgram.NewProvider(deepgram.Config{
			APIKey:      cfg.Deepgram.APIKey,
			APIBaseURL:  cfg.Deepgram.APIBaseURL,
			Model:       cfg.Deepgram.Model,
			Language:    cfg.Deepgram.Language,
			SmartFormat: cfg.Deepgram.SmartFormat,
		}),
		speech.Config{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
			},
			Streaming: ports.StreamingConfig{
				SampleRate:     cfg.Audio.SampleRate,
				Channels:       cfg.Audio.Channels,
				Encoding:       "linear16",
				InterimResults: true,
			},
			ChunkSize:      cfg.Session.ChunkSize,
			StreamingGrace: cfg.Session.StreamingGrace,
		},
		log,
	)

	processor := postproc.NewClient(postproc.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		PromptFile:  cfg.LLM.PromptFile,
		MaxRetries:  cfg.LLM.MaxRetries,
		Timeout:     cfg.LLM.Timeout,
	}, log)

	copier := clipboard.NewCopier(log)
	paster := typing.NewWtypePaster(log)
	runner := state.AsyncRunner{}

	handlers := []state.EffectHandler{
		&effects.StartRecording{Speech: speechSvc, Log: log},
		&effects.Recognize{Speech: speechSvc, Runner: runner, Log: log},
		&effects.PostProcess{Processor: processor, Runner: runner, Log: log},
		&effects.Finalize{Clipboard: copier, Paster: paster, PasteDelay: cfg.Clipboard.PasteDelay, Log: log},
		&effects.Restart{Speech: speechSvc, Runner: runner, Delay: cfg.Session.RestartDelay, Log: log},
		&effects.PersistSettings{Store: settingsStore, Log: log},
		&effects.History{Store: historyDB, Log: log},
	}

	initial := domain.Snapshot{
		Phase:    domain.PhaseIdle,
		Settings: loaded,
	}

	return Services{
		Store:   state.New(initial, handlers, log),
		Speech:  speechSvc,
		History: historyDB,
		Config:  cfg,
	}, nil
}
