package ports

import (
	"context"
	"io"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
)

// Speech records microphone audio and produces transcripts.
type Speech interface {
	// Start begins capture for a new session.
	Start(ctx context.Context) error
	// Stop discards the capture buffer without producing a result.
	Stop()
	// StopAndRecognize stops capture and returns the transcript. An empty
	// transcript with a nil error means no speech was detected.
	StopAndRecognize(ctx context.Context) (string, error)
}

// PostProcessor rewrites recognized text. Implementations fall back to
// returning the input unchanged on expected failures; an error signals an
// unexpected fault only.
type PostProcessor interface {
	Process(ctx context.Context, text string) (string, error)
}

// Clipboard writes text into a system selection buffer.
type Clipboard interface {
	CopyStandard(ctx context.Context, text string) error
	CopyPrimary(ctx context.Context, text string) error
}

// Paster emulates a paste keystroke for the configured copy method.
type Paster interface {
	Paste(ctx context.Context, method domain.CopyMethod) error
}

// SettingsStore persists the user-configurable snapshot settings.
type SettingsStore interface {
	Load() (domain.Settings, error)
	Save(settings domain.Settings) error
}

// HistoryStore records finalized transcripts.
type HistoryStore interface {
	Append(record domain.TranscriptRecord) error
	Recent(limit int) ([]domain.TranscriptRecord, error)
}

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// AudioSession is a live capture session.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
}

// StreamingConfig describes provider-agnostic streaming settings.
type StreamingConfig struct {
	SampleRate     int
	Channels       int
	Encoding       string
	InterimResults bool
}

// StreamingSession is an active provider recognition stream.
type StreamingSession interface {
	SendAudio(chunk []byte) error
	CloseSend() error
	Events() <-chan domain.TranscriptEvent
	Wait() error
	Close() error
}

// TranscriptionProvider starts streaming recognition sessions.
type TranscriptionProvider interface {
	StartStreaming(ctx context.Context, cfg StreamingConfig) (StreamingSession, error)
}
