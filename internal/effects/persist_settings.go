package effects

import (
	"github.com/rs/zerolog"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
	"github.com/postpersonality/float-speech-to-text/internal/ports"
)

// PersistSettings writes the user settings to durable storage whenever a
// dispatch changes any of them. Write failures are logged only.
type PersistSettings struct {
	Store ports.SettingsStore
	Log   zerolog.Logger
}

func (e *PersistSettings) Handle(prev domain.Snapshot, event domain.Event, next domain.Snapshot, dispatch func(domain.Event)) {
	if prev.Settings == next.Settings {
		return
	}
	if err := e.Store.Save(next.Settings); err != nil {
		e.Log.Error().Err(err).Msg("failed to persist settings")
		return
	}
	e.Log.Debug().Msg("settings persisted")
}
