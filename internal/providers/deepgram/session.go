package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
)

// liveSession pumps audio to the websocket from one goroutine and reads
// transcript messages on another. The first non-close error wins; normal
// websocket closure is not an error.
type liveSession struct {
	conn *websocket.Conn

	events   chan domain.TranscriptEvent
	audio    chan []byte
	sendDone chan struct{}
	done     chan struct{}

	loops sync.WaitGroup

	errMu    sync.Mutex
	firstErr error

	closeSendOnce sync.Once
	closeOnce     sync.Once
}

func newLiveSession(ctx context.Context, conn *websocket.Conn) *liveSession {
	s := &liveSession{
		conn:     conn,
		events:   make(chan domain.TranscriptEvent, 64),
		audio:    make(chan []byte, 32),
		sendDone: make(chan struct{}),
		done:     make(chan struct{}),
	}

	s.loops.Add(2)
	go s.readLoop()
	go s.writeLoop()
	go func() {
		s.loops.Wait()
		close(s.events)
		close(s.done)
		_ = conn.Close()
	}()

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	return s
}

func (s *liveSession) SendAudio(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	select {
	case <-s.sendDone:
		return errors.New("audio stream is already closed")
	default:
	}

	copied := append([]byte(nil), chunk...)
	select {
	case s.audio <- copied:
		return nil
	case <-s.sendDone:
		return errors.New("audio stream is already closed")
	case <-s.done:
		if err := s.err(); err != nil {
			return err
		}
		return errors.New("session closed")
	}
}

// CloseSend signals the write loop instead of closing the audio channel:
// a sender blocked on a full buffer must get an error, not a send-on-closed
// panic.
func (s *liveSession) CloseSend() error {
	s.closeSendOnce.Do(func() { close(s.sendDone) })
	return nil
}

func (s *liveSession) Events() <-chan domain.TranscriptEvent {
	return s.events
}

func (s *liveSession) Wait() error {
	<-s.done
	return s.err()
}

func (s *liveSession) Close() error {
	s.closeOnce.Do(func() {
		_ = s.CloseSend()
		_ = s.conn.Close()
	})
	<-s.done
	return s.err()
}

func (s *liveSession) err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.firstErr
}

func (s *liveSession) recordErr(err error) {
	if err == nil {
		return
	}
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) {
		return
	}

	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.firstErr == nil {
		s.firstErr = err
	}
}

func (s *liveSession) writeLoop() {
	defer s.loops.Done()

	for {
		select {
		case chunk := <-s.audio:
			if err := s.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
				s.recordErr(fmt.Errorf("send audio: %w", err))
				return
			}
		case <-s.sendDone:
			if err := s.flushAudio(); err != nil {
				s.recordErr(err)
				return
			}
			// Deepgram flushes pending finals in response to CloseStream.
			if err := s.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CloseStream"}`)); err != nil {
				s.recordErr(fmt.Errorf("close stream: %w", err))
			}
			return
		}
	}
}

// flushAudio drains chunks that were buffered before CloseSend was observed.
func (s *liveSession) flushAudio() error {
	for {
		select {
		case chunk := <-s.audio:
			if err := s.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
				return fmt.Errorf("send audio: %w", err)
			}
		default:
			return nil
		}
	}
}

func (s *liveSession) readLoop() {
	defer s.loops.Done()

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.recordErr(fmt.Errorf("read provider message: %w", err))
			return
		}

		var msg listenMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}

		if strings.EqualFold(msg.Type, "Error") {
			reason := strings.TrimSpace(msg.Message)
			if reason == "" {
				reason = "deepgram returned an unknown error"
			}
			s.emit(domain.TranscriptEvent{Kind: domain.TranscriptKindFinal, IsSpeechFinal: true})
			s.recordErr(errors.New(reason))
			return
		}

		if event, ok := msg.event(); ok {
			s.emit(event)
		}
	}
}

// emit blocks until the consumer takes the event. Dropping transcripts under
// a slow consumer would lose final segments; the done channel is the only
// escape.
func (s *liveSession) emit(event domain.TranscriptEvent) {
	select {
	case s.events <- event:
	case <-s.done:
	}
}
