package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/postpersonality/float-speech-to-text/internal/bootstrap"
	"github.com/postpersonality/float-speech-to-text/internal/config"
	"github.com/postpersonality/float-speech-to-text/internal/domain"
	"github.com/postpersonality/float-speech-to-text/internal/history"
	"github.com/postpersonality/float-speech-to-text/internal/speech"
	"github.com/postpersonality/float-speech-to-text/internal/state"
)

const (
	eventState   = "fstt:state"
	eventPartial = "fstt:partial"
	eventError   = "fstt:error"
)

// App is the Wails application root. All UI interaction funnels into store
// dispatches; snapshot changes stream back over Wails events.
type App struct {
	ctx context.Context
	log zerolog.Logger

	store   *state.Store
	speech  *speech.Service
	history *history.DB
	cfg     config.Config

	bootErr     error
	unsubscribe func()
}

func NewApp() *App {
	level, err := zerolog.ParseLevel(strings.TrimSpace(os.Getenv("FSTT_LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
	return &App{log: log}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a.log)
	if err != nil {
		a.bootErr = err
		a.log.Error().Err(err).Msg("startup failed")
		runtime.EventsEmit(ctx, eventError, map[string]string{"message": err.Error()})
		return
	}

	a.store = services.Store
	a.speech = services.Speech
	a.history = services.History
	a.cfg = services.Config

	a.speech.OnPartial = func(text string) {
		runtime.EventsEmit(a.ctx, eventPartial, map[string]string{"text": text})
	}
	a.unsubscribe = a.store.Subscribe(a.emitState)
}

func (a *App) shutdown(_ context.Context) {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.speech != nil {
		a.speech.Stop()
	}
	if a.history != nil {
		_ = a.history.Close()
	}
}

// StartRecording begins a new dictation session.
func (a *App) StartRecording() (domain.Snapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.Snapshot{}, err
	}
	a.store.Dispatch(domain.RequestStart{})
	return a.store.Current(), nil
}

// StopRecording ends recording and kicks off recognition.
func (a *App) StopRecording() (domain.Snapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.Snapshot{}, err
	}
	a.store.Dispatch(domain.RequestStop{})
	return a.store.Current(), nil
}

// RestartRecording discards the current take and records again.
func (a *App) RestartRecording() (domain.Snapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.Snapshot{}, err
	}
	a.store.Dispatch(domain.RequestRestart{})
	return a.store.Current(), nil
}

// ToggleLLM flips post-processing on or off.
func (a *App) ToggleLLM() (domain.Snapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.Snapshot{}, err
	}
	a.store.Dispatch(domain.ToggleLLM{})
	return a.store.Current(), nil
}

// ReportMonitorChanged records which monitor hosts the window.
func (a *App) ReportMonitorChanged(name string) {
	if a.store == nil {
		return
	}
	a.store.Dispatch(domain.MonitorChanged{Name: name})
}

// GetState returns the current snapshot for UI bootstrapping.
func (a *App) GetState() domain.Snapshot {
	if a.store == nil {
		return domain.Snapshot{Phase: domain.PhaseIdle, LastError: a.bootErrMessage()}
	}
	return a.store.Current()
}

// RecentTranscripts returns the latest finalized dictations.
func (a *App) RecentTranscripts(limit int) ([]domain.TranscriptRecord, error) {
	if err := a.requireReady(); err != nil {
		return nil, err
	}
	return a.history.Recent(limit)
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}
	return map[string]string{
		"provider":   "Deepgram",
		"model":      a.cfg.Deepgram.Model,
		"language":   a.cfg.Deepgram.Language,
		"llmModel":   a.cfg.LLM.Model,
		"audioInput": a.cfg.Audio.InputDevice,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.store == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

func (a *App) bootErrMessage() string {
	if a.bootErr == nil {
		return ""
	}
	return a.bootErr.Error()
}

func (a *App) emitState(snapshot domain.Snapshot) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventState, map[string]any{
		"snapshot": snapshot,
		"message":  phaseMessage(snapshot),
	})
}

// phaseMessage is the status line shown under the record button.
func phaseMessage(s domain.Snapshot) string {
	if s.LastError != "" {
		return s.LastError
	}
	switch s.Phase {
	case domain.PhaseIdle:
		if s.ProcessedText != "" || s.RecognizedText != "" {
			return "Transcript ready"
		}
		return "Ready"
	case domain.PhaseRecording:
		return "Recording..."
	case domain.PhaseProcessing:
		return "Recognizing..."
	case domain.PhasePostProcessing:
		return "Polishing text..."
	case domain.PhaseRestarting:
		return "Restarting recording..."
	default:
		return ""
	}
}
