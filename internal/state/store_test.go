package state

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
)

func TestStoreDispatchAppliesTransition(t *testing.T) {
	t.Parallel()

	store := New(domain.Snapshot{Phase: domain.PhaseIdle}, nil, zerolog.Nop())

	store.Dispatch(domain.RequestStart{})

	got := store.Current()
	if got.Phase != domain.PhaseRecording || got.SessionID != 1 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestStoreSubscribeDeliversImmediatelyAndOnChange(t *testing.T) {
	t.Parallel()

	store := New(domain.Snapshot{Phase: domain.PhaseIdle}, nil, zerolog.Nop())

	var seen []domain.Snapshot
	unsubscribe := store.Subscribe(func(s domain.Snapshot) {
		seen = append(seen, s)
	})

	if len(seen) != 1 || seen[0].Phase != domain.PhaseIdle {
		t.Fatalf("expected immediate delivery, got %+v", seen)
	}

	store.Dispatch(domain.RequestStart{})
	if len(seen) != 2 || seen[1].Phase != domain.PhaseRecording {
		t.Fatalf("expected change delivery, got %+v", seen)
	}

	unsubscribe()
	store.Dispatch(domain.RequestStop{})
	if len(seen) != 2 {
		t.Fatalf("expected no delivery after unsubscribe, got %d", len(seen))
	}
}

func TestStoreEffectHandlersSeeExactTransitionPair(t *testing.T) {
	t.Parallel()

	recorder := &recordingHandler{}
	store := New(domain.Snapshot{Phase: domain.PhaseIdle}, []EffectHandler{recorder}, zerolog.Nop())

	store.Dispatch(domain.RequestStart{})
	store.Dispatch(domain.RequestStop{})

	calls := recorder.snapshot()
	if len(calls) != 2 {
		t.Fatalf("expected 2 effect calls, got %d", len(calls))
	}
	if calls[0].prev.Phase != domain.PhaseIdle || calls[0].next.Phase != domain.PhaseRecording {
		t.Fatalf("unexpected first pair: %+v", calls[0])
	}
	if calls[1].prev.Phase != domain.PhaseRecording || calls[1].next.Phase != domain.PhaseProcessing {
		t.Fatalf("unexpected second pair: %+v", calls[1])
	}
}

func TestStoreEffectHandlerOrderIsRegistrationOrder(t *testing.T) {
	t.Parallel()

	var order []string
	first := handlerFunc(func(domain.Snapshot, domain.Event, domain.Snapshot, func(domain.Event)) {
		order = append(order, "first")
	})
	second := handlerFunc(func(domain.Snapshot, domain.Event, domain.Snapshot, func(domain.Event)) {
		order = append(order, "second")
	})

	store := New(domain.Snapshot{}, []EffectHandler{first, second}, zerolog.Nop())
	store.Dispatch(domain.ToggleLLM{})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected handler order: %v", order)
	}
}

func TestStoreSupportsReentrantDispatch(t *testing.T) {
	t.Parallel()

	chained := handlerFunc(func(_ domain.Snapshot, event domain.Event, next domain.Snapshot, dispatch func(domain.Event)) {
		if _, ok := event.(domain.RequestStart); ok {
			dispatch(domain.RequestStop{})
		}
	})

	store := New(domain.Snapshot{Phase: domain.PhaseIdle}, []EffectHandler{chained}, zerolog.Nop())
	store.Dispatch(domain.RequestStart{})

	got := store.Current()
	if got.Phase != domain.PhaseProcessing {
		t.Fatalf("expected re-entrant dispatch to land in processing, got %s", got.Phase)
	}
}

func TestStoreConcurrentDispatchesStayConsistent(t *testing.T) {
	t.Parallel()

	store := New(domain.Snapshot{Phase: domain.PhaseIdle}, nil, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Dispatch(domain.ToggleLLM{})
		}()
	}
	wg.Wait()

	// An even number of toggles must land back on the initial value.
	if store.Current().Settings.LLMEnabled {
		t.Fatalf("expected llm disabled after 64 toggles")
	}
}

type effectCall struct {
	prev domain.Snapshot
	next domain.Snapshot
}

type recordingHandler struct {
	mu    sync.Mutex
	calls []effectCall
}

func (r *recordingHandler) Handle(prev domain.Snapshot, _ domain.Event, next domain.Snapshot, _ func(domain.Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, effectCall{prev: prev, next: next})
}

func (r *recordingHandler) snapshot() []effectCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]effectCall, len(r.calls))
	copy(out, r.calls)
	return out
}

type handlerFunc func(domain.Snapshot, domain.Event, domain.Snapshot, func(domain.Event))

func (f handlerFunc) Handle(prev domain.Snapshot, event domain.Event, next domain.Snapshot, dispatch func(domain.Event)) {
	f(prev, event, next, dispatch)
}
