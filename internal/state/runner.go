package state

import "github.com/postpersonality/float-speech-to-text/internal/domain"

// TaskRunner executes effect work off the dispatch path and delivers the
// resulting completion event. Work is never cancelled: a superseded task runs
// to completion and its event is discarded by the session fence inside the
// transition function.
type TaskRunner interface {
	Run(work func() domain.Event, deliver func(domain.Event))
}

// AsyncRunner executes work on its own goroutine. Delivery re-enters the
// store through Dispatch, whose lock serializes it with every other event.
type AsyncRunner struct{}

func (AsyncRunner) Run(work func() domain.Event, deliver func(domain.Event)) {
	go func() {
		deliver(work())
	}()
}

// SyncRunner executes work and delivery inline on the calling goroutine.
// Used in tests for deterministic, race-free runs of the effect pipeline.
type SyncRunner struct{}

func (SyncRunner) Run(work func() domain.Event, deliver func(domain.Event)) {
	deliver(work())
}
