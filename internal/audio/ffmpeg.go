// Package audio captures raw microphone PCM by running ffmpeg as a child
// process and reading its stdout. Keeping the capture out of process avoids
// cgo audio bindings and works with both PulseAudio and ALSA inputs.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/postpersonality/float-speech-to-text/internal/ports"
)

// startupProbe is how long a freshly started ffmpeg must survive before the
// capture is considered live. Bad devices fail within this window.
const startupProbe = 250 * time.Millisecond

// stopGrace bounds how long Stop waits for ffmpeg to flush after SIGINT
// before escalating to SIGKILL.
const stopGrace = 1200 * time.Millisecond

// Recorder launches ffmpeg capture sessions emitting signed 16-bit
// little-endian PCM.
type Recorder struct {
	binary string
}

func NewRecorder(binary string) *Recorder {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Recorder{binary: binary}
}

func (r *Recorder) Start(ctx context.Context, cfg ports.AudioConfig) (ports.AudioSession, error) {
	cfg = withDefaults(cfg)

	cmd := exec.CommandContext(ctx, r.binary,
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", cfg.InputFormat,
		"-i", cfg.InputDevice,
		"-ac", strconv.Itoa(cfg.Channels),
		"-ar", strconv.Itoa(cfg.SampleRate),
		"-f", "s16le",
		"-",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
		close(exited)
	}()

	select {
	case err := <-exited:
		if err != nil {
			return nil, fmt.Errorf("ffmpeg exited during startup: %w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, errors.New("ffmpeg exited during startup")
	case <-time.After(startupProbe):
	}

	return &captureSession{
		pcm:     stdout,
		stderr:  &stderr,
		process: cmd.Process,
		exited:  exited,
	}, nil
}

func withDefaults(cfg ports.AudioConfig) ports.AudioConfig {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.InputFormat == "" {
		cfg.InputFormat = "pulse"
	}
	if cfg.InputDevice == "" {
		cfg.InputDevice = "default"
	}
	return cfg
}

type captureSession struct {
	pcm    io.ReadCloser
	stderr *bytes.Buffer

	process *os.Process
	exited  <-chan error

	stopOnce sync.Once
	stopErr  error
}

func (s *captureSession) Read(p []byte) (int, error) {
	return s.pcm.Read(p)
}

func (s *captureSession) Close() error {
	return s.Stop()
}

// Stop interrupts ffmpeg and waits for it to exit, killing it if SIGINT is
// not honored within the grace window. A non-zero exit after an interrupt is
// not an error.
func (s *captureSession) Stop() error {
	s.stopOnce.Do(func() {
		if s.process != nil {
			_ = s.process.Signal(os.Interrupt)
		}

		select {
		case err, ok := <-s.exited:
			if ok {
				s.stopErr = dropExitStatus(err)
			}
		case <-time.After(stopGrace):
			if s.process != nil {
				_ = s.process.Kill()
			}
			if err, ok := <-s.exited; ok {
				s.stopErr = dropExitStatus(err)
			}
		}

		if err := s.pcm.Close(); err != nil && !errors.Is(err, os.ErrClosed) && s.stopErr == nil {
			s.stopErr = err
		}

		if s.stopErr != nil && s.stderr.Len() > 0 {
			s.stopErr = fmt.Errorf("%w: %s", s.stopErr, strings.TrimSpace(s.stderr.String()))
		}
	})
	return s.stopErr
}

func dropExitStatus(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}
