package state

import "github.com/postpersonality/float-speech-to-text/internal/domain"

// Transition computes the next snapshot from the current one and an event.
// It is pure and total: it never blocks, never performs I/O, and returns the
// snapshot unchanged for any (phase, event) pair it does not recognize.
// Completion events whose session id no longer matches the snapshot's are
// dropped entirely.
func Transition(s domain.Snapshot, event domain.Event) domain.Snapshot {
	switch e := event.(type) {
	case domain.RequestStart:
		return handleRequestStart(s)
	case domain.RequestStop:
		return handleRequestStop(s)
	case domain.RequestRestart:
		return handleRequestRestart(s)
	case domain.ToggleLLM:
		s.Settings.LLMEnabled = !s.Settings.LLMEnabled
		return s
	case domain.MonitorChanged:
		s.MonitorName = e.Name
		return s
	case domain.RecognitionCompleted:
		return handleRecognitionCompleted(s, e)
	case domain.PostProcessingCompleted:
		return handlePostProcessingCompleted(s, e)
	case domain.RestartCompleted:
		return handleRestartCompleted(s, e)
	}
	return s
}

func handleRequestStart(s domain.Snapshot) domain.Snapshot {
	if s.Phase != domain.PhaseIdle {
		return s
	}
	s.Phase = domain.PhaseRecording
	s.SessionID++
	s.RecognizedText = ""
	s.ProcessedText = ""
	s.LastError = ""
	return s
}

func handleRequestStop(s domain.Snapshot) domain.Snapshot {
	if s.Phase != domain.PhaseRecording {
		return s
	}
	s.Phase = domain.PhaseProcessing
	s.LastError = ""
	return s
}

func handleRequestRestart(s domain.Snapshot) domain.Snapshot {
	if s.Phase != domain.PhaseRecording {
		return s
	}
	s.Phase = domain.PhaseRestarting
	s.LastError = ""
	return s
}

func handleRecognitionCompleted(s domain.Snapshot, e domain.RecognitionCompleted) domain.Snapshot {
	if e.SessionID != s.SessionID {
		return s
	}
	// PhaseRecording is accepted too: a failed recording start reports its
	// error as a recognition failure without passing through Processing.
	if s.Phase != domain.PhaseProcessing && s.Phase != domain.PhaseRecording {
		return s
	}

	if e.Err != "" || e.Text == "" {
		s.Phase = domain.PhaseIdle
		s.RecognizedText = ""
		s.LastError = e.Err
		if s.LastError == "" {
			s.LastError = "no speech recognized"
		}
		return s
	}

	s.RecognizedText = e.Text
	s.LastError = ""
	if s.Settings.LLMEnabled {
		s.Phase = domain.PhasePostProcessing
	} else {
		s.Phase = domain.PhaseIdle
	}
	return s
}

func handlePostProcessingCompleted(s domain.Snapshot, e domain.PostProcessingCompleted) domain.Snapshot {
	if e.SessionID != s.SessionID {
		return s
	}
	if s.Phase != domain.PhasePostProcessing {
		return s
	}

	s.Phase = domain.PhaseIdle
	if e.Err != "" || e.Text == "" {
		s.ProcessedText = ""
		s.LastError = e.Err
		if s.LastError == "" {
			s.LastError = "empty post-processing result"
		}
		return s
	}

	s.ProcessedText = e.Text
	s.LastError = ""
	return s
}

func handleRestartCompleted(s domain.Snapshot, e domain.RestartCompleted) domain.Snapshot {
	if e.SessionID != s.SessionID {
		return s
	}
	if s.Phase != domain.PhaseRestarting {
		return s
	}

	if e.Success {
		s.Phase = domain.PhaseRecording
		s.RecognizedText = ""
		s.ProcessedText = ""
		s.LastError = ""
		return s
	}

	s.Phase = domain.PhaseIdle
	s.LastError = e.Err
	if s.LastError == "" {
		s.LastError = "restart failed"
	}
	return s
}
