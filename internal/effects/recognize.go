package effects

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
	"github.com/postpersonality/float-speech-to-text/internal/ports"
	"github.com/postpersonality/float-speech-to-text/internal/state"
)

// Recognize stops capture and runs recognition in the background when the
// user ends a recording. The session id is captured at dispatch time so a
// late result from a superseded session is fenced off by the transition
// function.
type Recognize struct {
	Speech ports.Speech
	Runner state.TaskRunner
	Log    zerolog.Logger
}

func (e *Recognize) Handle(prev domain.Snapshot, event domain.Event, next domain.Snapshot, dispatch func(domain.Event)) {
	if _, ok := event.(domain.RequestStop); !ok {
		return
	}
	if prev.Phase != domain.PhaseRecording || next.Phase != domain.PhaseProcessing {
		return
	}

	session := next.SessionID
	e.Log.Info().Int("session", session).Msg("stopping capture and recognizing")

	e.Runner.Run(func() domain.Event {
		text, err := e.Speech.StopAndRecognize(context.Background())
		if err != nil {
			e.Log.Error().Err(err).Int("session", session).Msg("recognition failed")
			return domain.RecognitionCompleted{SessionID: session, Err: err.Error()}
		}
		return domain.RecognitionCompleted{SessionID: session, Text: text}
	}, dispatch)
}
