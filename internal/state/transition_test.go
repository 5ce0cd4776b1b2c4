package state

import (
	"testing"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
)

func TestTransitionStartFromIdle(t *testing.T) {
	t.Parallel()

	s := domain.Snapshot{
		Phase:          domain.PhaseIdle,
		SessionID:      4,
		RecognizedText: "old",
		ProcessedText:  "old processed",
		LastError:      "old error",
	}

	next := Transition(s, domain.RequestStart{})

	if next.Phase != domain.PhaseRecording {
		t.Fatalf("unexpected phase: %s", next.Phase)
	}
	if next.SessionID != 5 {
		t.Fatalf("expected session 5, got %d", next.SessionID)
	}
	if next.RecognizedText != "" || next.ProcessedText != "" || next.LastError != "" {
		t.Fatalf("expected cleared texts and error: %+v", next)
	}
}

func TestTransitionStartOutsideIdleIsNoop(t *testing.T) {
	t.Parallel()

	for _, phase := range []domain.Phase{
		domain.PhaseRecording,
		domain.PhaseProcessing,
		domain.PhasePostProcessing,
		domain.PhaseRestarting,
	} {
		s := domain.Snapshot{Phase: phase, SessionID: 2}
		if next := Transition(s, domain.RequestStart{}); next != s {
			t.Fatalf("expected no-op in phase %s, got %+v", phase, next)
		}
	}
}

func TestTransitionStopAndRestartOnlyFromRecording(t *testing.T) {
	t.Parallel()

	recording := domain.Snapshot{Phase: domain.PhaseRecording, SessionID: 1, LastError: "stale"}

	stopped := Transition(recording, domain.RequestStop{})
	if stopped.Phase != domain.PhaseProcessing || stopped.LastError != "" {
		t.Fatalf("unexpected stop result: %+v", stopped)
	}

	restarting := Transition(recording, domain.RequestRestart{})
	if restarting.Phase != domain.PhaseRestarting || restarting.LastError != "" {
		t.Fatalf("unexpected restart result: %+v", restarting)
	}

	idle := domain.Snapshot{Phase: domain.PhaseIdle}
	if next := Transition(idle, domain.RequestStop{}); next != idle {
		t.Fatalf("expected stop no-op while idle")
	}
	if next := Transition(idle, domain.RequestRestart{}); next != idle {
		t.Fatalf("expected restart no-op while idle")
	}
}

func TestTransitionToggleLLMInAnyPhase(t *testing.T) {
	t.Parallel()

	s := domain.Snapshot{Phase: domain.PhaseProcessing, Settings: domain.Settings{LLMEnabled: true}}
	next := Transition(s, domain.ToggleLLM{})
	if next.Settings.LLMEnabled {
		t.Fatalf("expected llm disabled")
	}
	if next.Phase != domain.PhaseProcessing {
		t.Fatalf("toggle must not change phase, got %s", next.Phase)
	}

	again := Transition(next, domain.ToggleLLM{})
	if !again.Settings.LLMEnabled {
		t.Fatalf("expected llm re-enabled")
	}
}

func TestTransitionRecognitionSuccessBranchesOnLLM(t *testing.T) {
	t.Parallel()

	base := domain.Snapshot{Phase: domain.PhaseProcessing, SessionID: 3}

	withLLM := base
	withLLM.Settings.LLMEnabled = true
	next := Transition(withLLM, domain.RecognitionCompleted{SessionID: 3, Text: "hello"})
	if next.Phase != domain.PhasePostProcessing {
		t.Fatalf("expected post_processing, got %s", next.Phase)
	}
	if next.RecognizedText != "hello" || next.LastError != "" {
		t.Fatalf("unexpected snapshot: %+v", next)
	}

	next = Transition(base, domain.RecognitionCompleted{SessionID: 3, Text: "hello"})
	if next.Phase != domain.PhaseIdle {
		t.Fatalf("expected idle without llm, got %s", next.Phase)
	}
	if next.RecognizedText != "hello" {
		t.Fatalf("expected recognized text set")
	}
}

func TestTransitionRecognitionEmptyOrError(t *testing.T) {
	t.Parallel()

	base := domain.Snapshot{Phase: domain.PhaseProcessing, SessionID: 3}

	empty := Transition(base, domain.RecognitionCompleted{SessionID: 3})
	if empty.Phase != domain.PhaseIdle || empty.LastError == "" {
		t.Fatalf("expected idle with error, got %+v", empty)
	}

	failed := Transition(base, domain.RecognitionCompleted{SessionID: 3, Err: "mic unavailable"})
	if failed.Phase != domain.PhaseIdle || failed.LastError != "mic unavailable" {
		t.Fatalf("unexpected failure result: %+v", failed)
	}
	if failed.RecognizedText != "" {
		t.Fatalf("expected recognized text cleared")
	}
}

func TestTransitionPostProcessingCompleted(t *testing.T) {
	t.Parallel()

	base := domain.Snapshot{
		Phase:          domain.PhasePostProcessing,
		SessionID:      7,
		RecognizedText: "raw",
	}

	ok := Transition(base, domain.PostProcessingCompleted{SessionID: 7, Text: "polished"})
	if ok.Phase != domain.PhaseIdle || ok.ProcessedText != "polished" || ok.LastError != "" {
		t.Fatalf("unexpected success result: %+v", ok)
	}

	failed := Transition(base, domain.PostProcessingCompleted{SessionID: 7, Err: "llm down"})
	if failed.Phase != domain.PhaseIdle || failed.LastError != "llm down" {
		t.Fatalf("unexpected failure result: %+v", failed)
	}
	if failed.ProcessedText != "" {
		t.Fatalf("expected processed text cleared")
	}
	if failed.RecognizedText != "raw" {
		t.Fatalf("recognized text must survive a post-processing failure")
	}
}

func TestTransitionRestartCompleted(t *testing.T) {
	t.Parallel()

	base := domain.Snapshot{
		Phase:          domain.PhaseRestarting,
		SessionID:      2,
		RecognizedText: "stale",
		ProcessedText:  "stale",
	}

	ok := Transition(base, domain.RestartCompleted{SessionID: 2, Success: true})
	if ok.Phase != domain.PhaseRecording {
		t.Fatalf("expected recording, got %s", ok.Phase)
	}
	if ok.RecognizedText != "" || ok.ProcessedText != "" || ok.LastError != "" {
		t.Fatalf("expected cleared snapshot: %+v", ok)
	}

	failed := Transition(base, domain.RestartCompleted{SessionID: 2, Success: false, Err: "device busy"})
	if failed.Phase != domain.PhaseIdle || failed.LastError != "device busy" {
		t.Fatalf("unexpected failure result: %+v", failed)
	}
}

func TestTransitionDropsStaleCompletions(t *testing.T) {
	t.Parallel()

	snapshots := []domain.Snapshot{
		{Phase: domain.PhaseProcessing, SessionID: 5},
		{Phase: domain.PhasePostProcessing, SessionID: 5},
		{Phase: domain.PhaseRestarting, SessionID: 5},
	}
	events := []domain.Event{
		domain.RecognitionCompleted{SessionID: 4, Text: "x"},
		domain.PostProcessingCompleted{SessionID: 4, Text: "x"},
		domain.RestartCompleted{SessionID: 4, Success: true},
	}

	for _, s := range snapshots {
		for _, e := range events {
			if next := Transition(s, e); next != s {
				t.Fatalf("stale %T must be a no-op in phase %s, got %+v", e, s.Phase, next)
			}
		}
	}
}

func TestTransitionIgnoresCompletionsInWrongPhase(t *testing.T) {
	t.Parallel()

	idle := domain.Snapshot{Phase: domain.PhaseIdle, SessionID: 1}

	if next := Transition(idle, domain.RecognitionCompleted{SessionID: 1, Text: "x"}); next != idle {
		t.Fatalf("recognition completion must be ignored while idle")
	}
	if next := Transition(idle, domain.PostProcessingCompleted{SessionID: 1, Text: "x"}); next != idle {
		t.Fatalf("post-processing completion must be ignored while idle")
	}
	if next := Transition(idle, domain.RestartCompleted{SessionID: 1, Success: true}); next != idle {
		t.Fatalf("restart completion must be ignored while idle")
	}
}

func TestTransitionRecognitionFailureWhileRecording(t *testing.T) {
	t.Parallel()

	recording := domain.Snapshot{Phase: domain.PhaseRecording, SessionID: 3}
	next := Transition(recording, domain.RecognitionCompleted{SessionID: 3, Err: "failed to start recording: device busy"})

	if next.Phase != domain.PhaseIdle {
		t.Fatalf("expected idle after start failure, got %s", next.Phase)
	}
	if next.LastError != "failed to start recording: device busy" {
		t.Fatalf("unexpected error: %q", next.LastError)
	}
}

func TestTransitionSessionIDNeverDecreases(t *testing.T) {
	t.Parallel()

	events := []domain.Event{
		domain.RequestStart{},
		domain.RequestStop{},
		domain.RecognitionCompleted{SessionID: 1, Text: "a"},
		domain.RequestStart{},
		domain.RequestRestart{},
		domain.RestartCompleted{SessionID: 2, Success: false, Err: "x"},
		domain.RequestStart{},
		domain.ToggleLLM{},
		domain.MonitorChanged{Name: "DP-1"},
		domain.RequestStop{},
		domain.RecognitionCompleted{SessionID: 1, Text: "stale"},
	}

	s := domain.Snapshot{Phase: domain.PhaseIdle}
	last := s.SessionID
	for _, e := range events {
		s = Transition(s, e)
		if s.SessionID < last {
			t.Fatalf("session id decreased after %T: %d < %d", e, s.SessionID, last)
		}
		last = s.SessionID
		switch s.Phase {
		case domain.PhaseIdle, domain.PhaseRecording, domain.PhaseProcessing,
			domain.PhasePostProcessing, domain.PhaseRestarting:
		default:
			t.Fatalf("invalid phase %q after %T", s.Phase, e)
		}
	}
}

func TestTransitionMonitorChanged(t *testing.T) {
	t.Parallel()

	s := domain.Snapshot{Phase: domain.PhaseRecording, SessionID: 1}
	next := Transition(s, domain.MonitorChanged{Name: "HDMI-A-1"})
	if next.MonitorName != "HDMI-A-1" {
		t.Fatalf("expected monitor name set, got %q", next.MonitorName)
	}
	if next.Phase != s.Phase || next.SessionID != s.SessionID {
		t.Fatalf("monitor change must not touch session state")
	}
}
