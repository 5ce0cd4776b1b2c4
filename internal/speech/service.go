// Package speech ties microphone capture to a streaming transcription
// provider behind the ports.Speech interface: Start opens a capture
// pipeline, Stop discards it, and StopAndRecognize drains it into a final
// transcript.
package speech

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/postpersonality/float-speech-to-text/internal/ports"
)

// Config controls capture and stream teardown behavior.
type Config struct {
	Audio     ports.AudioConfig
	Streaming ports.StreamingConfig

	// ChunkSize is the microphone read size in bytes.
	ChunkSize int
	// StreamingGrace is how long recognition keeps the stream open after the
	// microphone stops, letting the provider finish in-flight audio.
	StreamingGrace time.Duration
	// FlushTimeout bounds the wait for the provider's final results.
	FlushTimeout time.Duration
}

// Service implements ports.Speech over an audio capture and a transcription
// provider. At most one pipeline is live at a time; starting a new one
// discards any leftover pipeline first.
type Service struct {
	capture  ports.AudioCapture
	provider ports.TranscriptionProvider
	cfg      Config
	log      zerolog.Logger

	// OnPartial, when set, receives interim transcripts for live display.
	OnPartial func(text string)

	mu      sync.Mutex
	current *pipeline
}

func NewService(capture ports.AudioCapture, provider ports.TranscriptionProvider, cfg Config, log zerolog.Logger) *Service {
	if cfg.ChunkSize < 256 {
		cfg.ChunkSize = 4096
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = 4 * time.Second
	}
	return &Service{
		capture:  capture,
		provider: provider,
		cfg:      cfg,
		log:      log,
	}
}

func (s *Service) Start(ctx context.Context) error {
	if leftover := s.take(); leftover != nil {
		s.discard(leftover)
	}

	pipeCtx, cancel := context.WithCancel(ctx)
	stream, err := s.provider.StartStreaming(pipeCtx, s.cfg.Streaming)
	if err != nil {
		cancel()
		return err
	}

	audio, err := s.capture.Start(pipeCtx, s.cfg.Audio)
	if err != nil {
		_ = stream.Close()
		cancel()
		return err
	}

	p := &pipeline{
		cancel:     cancel,
		audio:      audio,
		stream:     stream,
		transcript: &aggregator{},
		eventsDone: make(chan struct{}),
		audioDone:  make(chan struct{}),
	}

	s.mu.Lock()
	s.current = p
	s.mu.Unlock()

	go consumeTranscripts(p.stream, p.transcript, s.OnPartial, p.eventsDone)
	go pumpAudio(p.audio, p.stream, s.cfg.ChunkSize, s.log, p.audioDone)

	s.log.Debug().Msg("capture pipeline started")
	return nil
}

// Stop discards the live pipeline without producing a transcript. It is a
// no-op when nothing is recording.
func (s *Service) Stop() {
	if p := s.take(); p != nil {
		s.discard(p)
	}
}

// StopAndRecognize stops the microphone, gives the provider a grace window
// to flush, and returns the aggregated transcript. An empty transcript with
// a nil error means no speech was detected.
func (s *Service) StopAndRecognize(ctx context.Context) (string, error) {
	p := s.take()
	if p == nil {
		return "", nil
	}
	defer p.cancel()

	if err := p.audio.Stop(); err != nil {
		s.log.Warn().Err(err).Msg("audio capture did not stop cleanly")
	}

	if s.cfg.StreamingGrace > 0 {
		timer := time.NewTimer(s.cfg.StreamingGrace)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	_ = p.stream.CloseSend()
	streamErr := awaitStream(p.stream, s.cfg.FlushTimeout)
	<-p.eventsDone
	<-p.audioDone

	text := p.transcript.Text()
	if text == "" && streamErr != nil {
		return "", streamErr
	}
	return text, nil
}

// take detaches the current pipeline so teardown happens outside the lock.
func (s *Service) take() *pipeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.current
	s.current = nil
	return p
}

func (s *Service) discard(p *pipeline) {
	p.cancel()
	_ = p.audio.Stop()
	_ = p.stream.Close()
	<-p.eventsDone
	<-p.audioDone
	s.log.Debug().Msg("capture pipeline discarded")
}
