package effects

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
	"github.com/postpersonality/float-speech-to-text/internal/ports"
	"github.com/postpersonality/float-speech-to-text/internal/state"
)

// Restart discards the current capture and starts a fresh one after a short
// settle delay, reporting the outcome as a RestartCompleted event.
type Restart struct {
	Speech ports.Speech
	Runner state.TaskRunner
	Delay  time.Duration
	Log    zerolog.Logger
}

func (e *Restart) Handle(prev domain.Snapshot, event domain.Event, next domain.Snapshot, dispatch func(domain.Event)) {
	if _, ok := event.(domain.RequestRestart); !ok {
		return
	}
	if prev.Phase != domain.PhaseRecording || next.Phase != domain.PhaseRestarting {
		return
	}

	session := next.SessionID
	e.Log.Info().Int("session", session).Msg("restarting capture")

	e.Runner.Run(func() domain.Event {
		e.Speech.Stop()
		time.Sleep(e.Delay)
		if err := e.Speech.Start(context.Background()); err != nil {
			e.Log.Error().Err(err).Int("session", session).Msg("restart failed")
			return domain.RestartCompleted{SessionID: session, Success: false, Err: err.Error()}
		}
		return domain.RestartCompleted{SessionID: session, Success: true}
	}, dispatch)
}
