package effects

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
	"github.com/postpersonality/float-speech-to-text/internal/ports"
	"github.com/postpersonality/float-speech-to-text/internal/state"
)

// PostProcess runs the LLM pass over freshly recognized text when enabled.
type PostProcess struct {
	Processor ports.PostProcessor
	Runner    state.TaskRunner
	Log       zerolog.Logger
}

func (e *PostProcess) Handle(prev domain.Snapshot, event domain.Event, next domain.Snapshot, dispatch func(domain.Event)) {
	completed, ok := event.(domain.RecognitionCompleted)
	if !ok {
		return
	}
	if completed.SessionID != next.SessionID || next.Phase != domain.PhasePostProcessing {
		return
	}
	if !next.Settings.LLMEnabled || completed.Text == "" {
		return
	}

	session := next.SessionID
	e.Log.Info().Int("session", session).Msg("post-processing transcript")

	e.Runner.Run(func() domain.Event {
		processed, err := e.Processor.Process(context.Background(), completed.Text)
		if err != nil {
			e.Log.Error().Err(err).Int("session", session).Msg("post-processing failed")
			return domain.PostProcessingCompleted{SessionID: session, Err: err.Error()}
		}
		return domain.PostProcessingCompleted{SessionID: session, Text: processed}
	}, dispatch)
}
