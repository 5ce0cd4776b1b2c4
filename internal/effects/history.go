package effects

import (
	"github.com/rs/zerolog"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
	"github.com/postpersonality/float-speech-to-text/internal/ports"
)

// History appends every finalized transcript to the history database. It
// shares Finalize's trigger conditions, so it records at most one entry per
// session. Storage failures are logged only.
type History struct {
	Store ports.HistoryStore
	Log   zerolog.Logger
}

func (e *History) Handle(prev domain.Snapshot, event domain.Event, next domain.Snapshot, dispatch func(domain.Event)) {
	text, ok := finalText(event, next)
	if !ok {
		return
	}

	record := domain.TranscriptRecord{
		SessionID: next.SessionID,
		Raw:       next.RecognizedText,
		Final:     text,
	}
	if record.Raw == "" {
		record.Raw = text
	}

	if err := e.Store.Append(record); err != nil {
		e.Log.Error().Err(err).Int("session", next.SessionID).Msg("failed to record transcript")
	}
}
