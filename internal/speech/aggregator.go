package speech

import (
	"strings"
	"sync"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
)

// aggregator accumulates streaming transcript events into one final string.
// Final segments are joined in order; the last spoken text covers the case
// where the provider never promotes the tail of an utterance to final.
type aggregator struct {
	mu         sync.Mutex
	finals     []string
	lastSpoken string
}

func (a *aggregator) Add(event domain.TranscriptEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	text := strings.TrimSpace(event.Text)
	if text == "" {
		return
	}
	a.lastSpoken = text
	if event.Kind == domain.TranscriptKindFinal {
		a.finals = append(a.finals, text)
	}
}

func (a *aggregator) Text() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	joined := strings.TrimSpace(strings.Join(a.finals, " "))
	if joined == "" {
		return a.lastSpoken
	}
	if a.lastSpoken == "" {
		return joined
	}
	if strings.HasSuffix(joined, a.lastSpoken) {
		return joined
	}
	if len(a.lastSpoken) > len(joined) {
		return strings.TrimSpace(joined + " " + a.lastSpoken)
	}
	return joined
}
