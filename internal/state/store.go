package state

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
)

// Subscriber receives every snapshot produced by the store, starting with the
// snapshot current at subscribe time.
type Subscriber func(domain.Snapshot)

// EffectHandler reacts to a dispatched event after the transition has been
// applied. Handlers may dispatch further events through the supplied callback;
// the store supports re-entrant dispatch.
type EffectHandler interface {
	Handle(prev domain.Snapshot, event domain.Event, next domain.Snapshot, dispatch func(domain.Event))
}

// Store owns the current snapshot and serializes all state changes.
//
// Dispatch holds the lock only for the read-transition-swap step; subscriber
// notification and effect invocation happen outside the lock so an effect
// handler can dispatch synchronously without deadlocking.
type Store struct {
	mu      sync.Mutex
	current domain.Snapshot

	subMu   sync.Mutex
	subs    map[int]Subscriber
	nextSub int

	effects []EffectHandler
	log     zerolog.Logger
}

// New creates a store with an initial snapshot and a fixed, ordered list of
// effect handlers.
func New(initial domain.Snapshot, effects []EffectHandler, log zerolog.Logger) *Store {
	return &Store{
		current: initial,
		subs:    make(map[int]Subscriber),
		effects: effects,
		log:     log,
	}
}

// Current returns the snapshot as of the last applied dispatch.
func (s *Store) Current() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Dispatch applies the transition function under the lock, then notifies
// subscribers and effect handlers with the exact (prev, next) pair produced
// by this call, even if a concurrent dispatch has already advanced the
// shared snapshot.
func (s *Store) Dispatch(event domain.Event) {
	s.mu.Lock()
	prev := s.current
	next := Transition(prev, event)
	s.current = next
	s.mu.Unlock()

	if prev.Phase != next.Phase {
		s.log.Debug().
			Str("from", string(prev.Phase)).
			Str("to", string(next.Phase)).
			Int("session", next.SessionID).
			Type("event", event).
			Msg("phase transition")
	}

	for _, fn := range s.subscribers() {
		fn(next)
	}
	for _, handler := range s.effects {
		handler.Handle(prev, event, next, s.Dispatch)
	}
}

// Subscribe registers fn, invokes it immediately with the current snapshot,
// and returns a closure that removes the subscription.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	fn(s.Current())

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) subscribers() []Subscriber {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	out := make([]Subscriber, 0, len(s.subs))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subs[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}
