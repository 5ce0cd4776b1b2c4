package effects

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
	"github.com/postpersonality/float-speech-to-text/internal/ports"
)

// Finalize commits the session's text: smart-text transform, copy into the
// configured selection buffer, and an optional delayed auto-paste.
//
// It fires at most once per session, on exactly one of two mutually
// exclusive triggers: RecognitionCompleted with post-processing disabled, or
// PostProcessingCompleted (falling back to the recognized text when the
// processed text is empty). Finalize failures are logged and never fed back
// into the state machine.
type Finalize struct {
	Clipboard  ports.Clipboard
	Paster     ports.Paster
	PasteDelay time.Duration
	Log        zerolog.Logger

	// After schedules the delayed paste; defaults to time.AfterFunc.
	// Tests substitute an immediate scheduler.
	After func(d time.Duration, fn func())
}

func (e *Finalize) Handle(prev domain.Snapshot, event domain.Event, next domain.Snapshot, dispatch func(domain.Event)) {
	text, ok := finalText(event, next)
	if !ok {
		return
	}

	text = SmartTransform(next.Settings, text)

	ctx := context.Background()
	var err error
	if next.Settings.CopyMethod == domain.CopyMethodPrimary {
		err = e.Clipboard.CopyPrimary(ctx, text)
	} else {
		err = e.Clipboard.CopyStandard(ctx, text)
	}
	if err != nil {
		e.Log.Error().Err(err).Int("session", next.SessionID).Msg("clipboard copy failed")
		return
	}

	e.Log.Info().
		Int("session", next.SessionID).
		Str("method", string(next.Settings.CopyMethod)).
		Msg("transcript copied")

	if !next.Settings.AutoPaste {
		return
	}

	method := next.Settings.CopyMethod
	e.schedule(e.PasteDelay, func() {
		if err := e.Paster.Paste(context.Background(), method); err != nil {
			e.Log.Error().Err(err).Msg("auto-paste failed")
		}
	})
}

func (e *Finalize) schedule(d time.Duration, fn func()) {
	if e.After != nil {
		e.After(d, fn)
		return
	}
	time.AfterFunc(d, fn)
}

// SmartTransform shapes the final text when smart processing is enabled:
// short phrases (word count at or below the threshold) are lower-cased with
// one trailing period stripped; longer text gets a trailing newline marker.
func SmartTransform(settings domain.Settings, text string) string {
	if !settings.SmartText {
		return text
	}
	if len(strings.Fields(text)) <= settings.ShortPhraseWords {
		return strings.TrimSuffix(strings.ToLower(text), ".")
	}
	return text + " \n"
}
