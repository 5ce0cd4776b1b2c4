// Package effects contains the side-effect handlers invoked by the store
// after every dispatch. Each handler reacts to one trigger pattern in the
// (previous snapshot, event, next snapshot) tuple, calls out to a
// collaborator, and converts failures into completion events. Handlers never
// touch the snapshot directly.
package effects

import (
	"github.com/postpersonality/float-speech-to-text/internal/domain"
)

// finalText decides whether this dispatch finalizes a session and with which
// text. The two trigger conditions are mutually exclusive for a given
// session: the recognition path only applies while LLM post-processing is
// disabled, and the post-processing path only fires for the event that ends
// the PostProcessing phase.
func finalText(event domain.Event, next domain.Snapshot) (string, bool) {
	if next.Phase != domain.PhaseIdle {
		return "", false
	}

	switch e := event.(type) {
	case domain.RecognitionCompleted:
		if e.SessionID != next.SessionID || next.Settings.LLMEnabled || e.Text == "" {
			return "", false
		}
		return e.Text, true
	case domain.PostProcessingCompleted:
		if e.SessionID != next.SessionID {
			return "", false
		}
		text := e.Text
		if text == "" {
			text = next.RecognizedText
		}
		if text == "" {
			return "", false
		}
		return text, true
	}
	return "", false
}
