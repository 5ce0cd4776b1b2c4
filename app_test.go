package main

import (
	"errors"
	"testing"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
)

func TestPhaseMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		snapshot domain.Snapshot
		want     string
	}{
		{"idle", domain.Snapshot{Phase: domain.PhaseIdle}, "Ready"},
		{"idle with transcript", domain.Snapshot{Phase: domain.PhaseIdle, RecognizedText: "hi"}, "Transcript ready"},
		{"recording", domain.Snapshot{Phase: domain.PhaseRecording}, "Recording..."},
		{"processing", domain.Snapshot{Phase: domain.PhaseProcessing}, "Recognizing..."},
		{"post processing", domain.Snapshot{Phase: domain.PhasePostProcessing}, "Polishing text..."},
		{"restarting", domain.Snapshot{Phase: domain.PhaseRestarting}, "Restarting recording..."},
		{"error wins", domain.Snapshot{Phase: domain.PhaseIdle, LastError: "no speech recognized"}, "no speech recognized"},
		{"unknown phase", domain.Snapshot{Phase: "bogus"}, ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := phaseMessage(tc.snapshot); got != tc.want {
				t.Fatalf("unexpected message: %q", got)
			}
		})
	}
}

func TestRequireReady(t *testing.T) {
	t.Parallel()

	app := &App{}
	if err := app.requireReady(); err == nil {
		t.Fatal("expected uninitialized error")
	}

	bootErr := errors.New("boot")
	app.bootErr = bootErr
	if err := app.requireReady(); !errors.Is(err, bootErr) {
		t.Fatalf("expected boot error, got %v", err)
	}
}

func TestGetStateWhenNotInitialized(t *testing.T) {
	t.Parallel()

	app := &App{}
	got := app.GetState()
	if got.Phase != domain.PhaseIdle || got.LastError != "" {
		t.Fatalf("unexpected state: %+v", got)
	}

	app.bootErr = errors.New("boot")
	got = app.GetState()
	if got.LastError != "boot" {
		t.Fatalf("expected boot error in state, got %+v", got)
	}
}

func TestGetRuntimeInfoWithBootError(t *testing.T) {
	t.Parallel()

	app := &App{bootErr: errors.New("boot")}
	info := app.GetRuntimeInfo()
	if info["error"] != "boot" {
		t.Fatalf("unexpected info: %v", info)
	}
}
