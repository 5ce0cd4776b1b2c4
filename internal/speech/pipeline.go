package speech

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
	"github.com/postpersonality/float-speech-to-text/internal/ports"
)

// pipeline is one live capture: the microphone session, the provider stream,
// and the two goroutines moving data between them.
type pipeline struct {
	cancel func()
	audio  ports.AudioSession
	stream ports.StreamingSession

	transcript *aggregator
	eventsDone chan struct{}
	audioDone  chan struct{}
}

// pumpAudio copies microphone chunks into the provider stream until the
// capture ends or the stream rejects a write.
func pumpAudio(audio ports.AudioSession, stream ports.StreamingSession, chunkSize int, log zerolog.Logger, done chan struct{}) {
	defer close(done)

	if chunkSize < 256 {
		chunkSize = 4096
	}

	buf := make([]byte, chunkSize)
	for {
		n, err := audio.Read(buf)
		if n > 0 {
			if sendErr := stream.SendAudio(buf[:n]); sendErr != nil {
				log.Error().Err(sendErr).Msg("failed to stream audio")
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Error().Err(err).Msg("audio capture error")
			}
			return
		}
	}
}

// consumeTranscripts drains provider events into the aggregator, forwarding
// partials to the optional listener.
func consumeTranscripts(stream ports.StreamingSession, transcript *aggregator, onPartial func(string), done chan struct{}) {
	defer close(done)

	for event := range stream.Events() {
		text := strings.TrimSpace(event.Text)
		if text == "" {
			continue
		}
		transcript.Add(event)
		if event.Kind == domain.TranscriptKindPartial && onPartial != nil {
			onPartial(text)
		}
	}
}

// awaitStream waits for the provider to finish flushing, force-closing the
// stream if it takes longer than the timeout.
func awaitStream(stream ports.StreamingSession, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- stream.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		_ = stream.Close()
		return <-done
	}
}
