package effects

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
	"github.com/postpersonality/float-speech-to-text/internal/ports"
)

// StartRecording opens microphone capture when a new session begins.
// A capture failure is converted into a RecognitionCompleted error so the
// transition function returns the session to idle.
type StartRecording struct {
	Speech ports.Speech
	Log    zerolog.Logger
}

func (e *StartRecording) Handle(prev domain.Snapshot, event domain.Event, next domain.Snapshot, dispatch func(domain.Event)) {
	if _, ok := event.(domain.RequestStart); !ok {
		return
	}
	if prev.Phase != domain.PhaseIdle || next.Phase != domain.PhaseRecording {
		return
	}

	e.Log.Info().Int("session", next.SessionID).Msg("starting capture")
	if err := e.Speech.Start(context.Background()); err != nil {
		e.Log.Error().Err(err).Msg("capture start failed")
		dispatch(domain.RecognitionCompleted{
			SessionID: next.SessionID,
			Err:       "failed to start recording: " + err.Error(),
		})
	}
}
